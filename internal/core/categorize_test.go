package core

import "testing"

func TestCategorize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"lunch at the pizza place", "food"},
		{"random words with no matches", CategoryOther},
		{"uber to the airport", "transportation"},
		{"netflix and spotify", "entertainment"},
		{"new shoes from the mall", "shopping"},
		{"doctor visit copay", "healthcare"},
		{"tuition for the semester", "education"},
		{"hotel for the trip", "travel"},
		{"LUNCH AT THE PIZZA PLACE", "food"}, // case-insensitive
		{"", CategoryOther},
		// "movie" and "theater" both score entertainment past the single
		// "eat" substring hit inside "theater".
		{"movie theater tickets", "entertainment"},
	}
	for _, tc := range cases {
		if got := Categorize(tc.in); got != tc.want {
			t.Fatalf("Categorize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCategorizeTieBreakUsesDeclaredOrder(t *testing.T) {
	// One keyword hit each for food ("coffee") and transportation ("gas");
	// food is declared first so it wins the tie.
	if got := Categorize("gas station coffee"); got != "food" {
		t.Fatalf("tie-break = %q, want food", got)
	}
}

func TestCategorizeIsPure(t *testing.T) {
	in := "dinner and a movie"
	first := Categorize(in)
	for i := 0; i < 10; i++ {
		if got := Categorize(in); got != first {
			t.Fatalf("call %d returned %q, first returned %q", i, got, first)
		}
	}
}

func TestCategoriesOrder(t *testing.T) {
	cats := Categories()
	if len(cats) != 9 {
		t.Fatalf("expected 9 categories, got %d", len(cats))
	}
	if cats[0] != "food" || cats[len(cats)-1] != CategoryOther {
		t.Fatalf("unexpected order: %v", cats)
	}
}
