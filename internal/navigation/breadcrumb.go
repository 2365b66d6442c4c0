package navigation

import "strings"

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Trail returns the breadcrumbs leading to the deepest entry whose URL
// contains path. The last item is active. Nil means path is not in the menu.
func Trail(entries []Entry, path string) []BreadcrumbItem {
	trail, _ := trail(entries, path)
	if len(trail) > 0 {
		trail[len(trail)-1].Active = true
	}

	return trail
}

func trail(entries []Entry, path string) ([]BreadcrumbItem, int) {
	var (
		best      []BreadcrumbItem
		bestScore int
	)

	for _, e := range entries {
		item := BreadcrumbItem{Title: e.Title, URL: e.URL}

		if sub, score := trail(e.Children, path); score > bestScore {
			best = append([]BreadcrumbItem{item}, sub...)
			bestScore = score
		}

		if e.URL != "" && covers(e.URL, path) && len(e.URL) > bestScore {
			best = []BreadcrumbItem{item}
			bestScore = len(e.URL)
		}
	}

	return best, bestScore
}

func covers(prefix, path string) bool {
	return path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}
