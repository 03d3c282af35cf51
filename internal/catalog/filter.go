package catalog

import "strings"

// Queries shorter than this leave the listing unfiltered, so a single
// keystroke never narrows the grid.
const minQueryLen = 2

// Filter narrows products by a tag or a free-text query. The two axes are
// mutually exclusive at the UI level, but when both are present the tag is
// applied first and the query narrows the tagged subset. With no tag and a
// query shorter than two characters the input is returned as-is.
//
// Filter is pure and order-preserving; it is safe to recompute on every
// request.
func Filter(products []Product, tag, query string) []Product {
	tag = strings.ToLower(strings.TrimSpace(tag))
	query = strings.ToLower(strings.TrimSpace(query))

	out := products
	if tag != "" {
		out = filterByTag(out, tag)
	}
	if len(query) >= minQueryLen {
		out = filterByQuery(out, query)
	}
	return out
}

func filterByTag(products []Product, tag string) []Product {
	var out []Product
	for _, p := range products {
		for _, t := range p.Tags {
			if strings.ToLower(t) == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func filterByQuery(products []Product, query string) []Product {
	var out []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.SKU), query) {
			out = append(out, p)
		}
	}
	return out
}
