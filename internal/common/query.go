package common

import (
	"net/http"
	"strings"
)

// SearchTerm extracts a trimmed free-text search parameter, empty when absent.
func SearchTerm(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("search"))
}
