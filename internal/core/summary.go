package core

// CategoryTotal is an amount aggregated under one category label.
type CategoryTotal struct {
	Category string
	Total    Money
}

// Stats summarizes the whole store: overall total, per-category totals
// sorted by amount descending, and count/total for the last seven days
// inclusive of today.
type Stats struct {
	Total       Money
	ByCategory  []CategoryTotal
	RecentCount int64
	RecentTotal Money
}
