package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

var priceFilterRe = regexp.MustCompile(`(?:under|below|less than|<)\s*([\d,]+)\s*(k|thousand)?`)

// ExtractMaxPrice parses a "under 5000" / "below 3k" style constraint from a
// query. The second return is false when the query carries no price filter.
func ExtractMaxPrice(query string) (int, bool) {
	m := priceFilterRe.FindStringSubmatch(strings.ToLower(query))
	if m == nil {
		return 0, false
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	price, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	if m[2] != "" {
		price *= 1000
	}
	return price, true
}
