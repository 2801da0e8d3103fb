package carousel

import "sort"

// Choice is one selectable card before it is rendered into a column.
type Choice struct {
	Key         string
	Title       string
	Text        string
	ActionLabel string
	ActionText  string
}

// SortByKey orders choices lexically by key, with the pinned key first when
// it is present in the list. Keys are expected to be zero-padded so the
// lexical order matches the numeric one.
func SortByKey(items []Choice, pinnedKey string) []Choice {
	sorted := make([]Choice, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if pinnedKey != "" {
			if sorted[i].Key == pinnedKey && sorted[j].Key != pinnedKey {
				return true
			}
			if sorted[j].Key == pinnedKey && sorted[i].Key != pinnedKey {
				return false
			}
		}
		return sorted[i].Key < sorted[j].Key
	})
	return sorted
}

// Page slices one page out of items, preserving their order. The second
// return reports whether another page follows. Out of range pages yield an
// empty slice.
func Page(items []Choice, page, pageSize int) ([]Choice, bool) {
	if page < 0 || pageSize <= 0 {
		return nil, false
	}
	start := page * pageSize
	if start >= len(items) {
		return nil, false
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], end < len(items)
}

// Paginate sorts by key with the pinned entry first, then slices one page.
// Used for employee lists, title lists keep their stored order and go
// through Page directly.
func Paginate(items []Choice, page int, pinnedKey string, pageSize int) ([]Choice, bool) {
	return Page(SortByKey(items, pinnedKey), page, pageSize)
}
