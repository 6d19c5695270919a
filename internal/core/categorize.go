package core

import "strings"

type categoryKeywords struct {
	category string
	keywords []string
}

// taxonomy lists every category with its keywords. The slice order is the
// documented tie-break: when two categories score equally, the one declared
// first wins. Keep the order stable.
var taxonomy = []categoryKeywords{
	{"food", []string{"food", "restaurant", "lunch", "dinner", "breakfast", "coffee", "pizza", "burger", "meal", "eat", "dining"}},
	{"transportation", []string{"gas", "fuel", "uber", "taxi", "bus", "train", "metro", "parking", "toll", "transport"}},
	{"shopping", []string{"store", "shop", "mall", "amazon", "purchase", "buy", "clothes", "shirt", "pants", "shoes"}},
	{"entertainment", []string{"movie", "cinema", "theater", "game", "netflix", "spotify", "entertainment", "fun"}},
	{"utilities", []string{"electric", "water", "gas bill", "internet", "phone", "utility", "bill"}},
	{"healthcare", []string{"doctor", "hospital", "medicine", "pharmacy", "medical", "health", "clinic"}},
	{"education", []string{"school", "book", "course", "education", "learning", "tuition", "student"}},
	{"travel", []string{"hotel", "flight", "vacation", "trip", "travel", "airbnb", "booking"}},
}

// Categorize assigns a category to a free-text description by counting how
// many of each category's keywords appear as substrings of the lower-cased
// text. Each keyword is a presence test contributing at most one point. The
// highest-scoring category wins; no match yields CategoryOther. Pure
// function over the fixed taxonomy.
func Categorize(description string) string {
	lower := strings.ToLower(description)

	best := CategoryOther
	bestScore := 0
	for _, c := range taxonomy {
		score := 0
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = c.category
		}
	}
	return best
}

// Categories returns the taxonomy labels in declared order, with the
// fallback category appended.
func Categories() []string {
	out := make([]string, 0, len(taxonomy)+1)
	for _, c := range taxonomy {
		out = append(out, c.category)
	}
	return append(out, CategoryOther)
}
