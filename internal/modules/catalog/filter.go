package catalog

import "strings"

// CategoryAll selects every category.
const CategoryAll = "all"

// Filter keeps the products in category (exact match, or every product for
// CategoryAll) whose name or description contains query, ignoring case. The
// input order is preserved.
func Filter(products []Product, category, query string) []Product {
	q := strings.ToLower(query)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if category != CategoryAll && p.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct non-empty categories in first-seen order.
func Categories(products []Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}
