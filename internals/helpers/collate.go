package helper

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NameCollator orders Vietnamese names the way people expect ("Đ" after "D", tones ignored first).
// A collator is not safe for concurrent use; create one per sort.
func NameCollator() *collate.Collator {
	return collate.New(language.Vietnamese, collate.IgnoreCase)
}

// SortByName sorts items in place by the name key using Vietnamese collation.
func SortByName[T any](items []T, name func(T) string) {
	col := NameCollator()
	sort.SliceStable(items, func(i, j int) bool {
		return col.CompareString(name(items[i]), name(items[j])) < 0
	})
}
