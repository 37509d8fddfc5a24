package business

import "strings"

// NormalizeQuery trims the raw search input. ok is false when nothing is left to search for.
func NormalizeQuery(raw string) (query string, ok bool) {
	query = strings.TrimSpace(raw)
	return query, query != ""
}

// SubmitSearch runs a search on the catalog if the input is not blank.
// It returns false when the input was ignored.
func SubmitSearch(catalog *Catalog, raw string) bool {
	query, ok := NormalizeQuery(raw)
	if !ok {
		return false
	}
	catalog.Search(query)
	return true
}
