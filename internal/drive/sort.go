package drive

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator builds a collator that orders names the way the source
// folders are curated: numeric runs compare by value ("2" before "10")
// and case differences are ignored. An unparseable locale falls back to
// the und (root) collation rather than failing the walk.
func newCollator(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return collate.New(tag, collate.Numeric, collate.Loose)
}

func sortFolders(c *collate.Collator, folders []Folder) {
	sort.SliceStable(folders, func(i, j int) bool {
		return c.CompareString(folders[i].Name, folders[j].Name) < 0
	})
}

func sortItems(c *collate.Collator, items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(items[i].Name, items[j].Name) < 0
	})
}
