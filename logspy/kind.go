package logspy

import "strings"

// Kind classifies a SQL statement by its leading keyword. The dump
// toggles filter on it.
type Kind string

const (
	KindSelect Kind = "SELECT"
	KindInsert Kind = "INSERT"
	KindUpdate Kind = "UPDATE"
	KindDelete Kind = "DELETE"
	KindCreate Kind = "CREATE"
	KindOther  Kind = "OTHER"
)

// classify maps the first word of query to a Kind.
func classify(query string) Kind {
	switch extractOperation(query) {
	case "SELECT":
		return KindSelect
	case "INSERT":
		return KindInsert
	case "UPDATE":
		return KindUpdate
	case "DELETE":
		return KindDelete
	case "CREATE":
		return KindCreate
	default:
		return KindOther
	}
}

// spanName returns a span name from a SQL query: the operation keyword,
// or "SQL" for empty/unknown queries, since span names must not be
// empty.
func spanName(query string) string {
	if op := extractOperation(query); op != "" {
		return op
	}
	return "SQL"
}

// extractOperation extracts the SQL operation (first word) from a
// query, uppercased, or "" for an empty query.
func extractOperation(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	spaceIdx := strings.IndexAny(query, " \t\n\r")
	if spaceIdx == -1 {
		return strings.ToUpper(query)
	}
	return strings.ToUpper(query[:spaceIdx])
}
