package locate

import (
	"fmt"
	"sort"
)

// DefaultKnownPages is the built-in table of previously verified chapter
// start pages for the source edition. The orchestrator falls back to it
// whenever automatic detection fails or collides with an earlier
// assignment.
func DefaultKnownPages() map[int]int {
	return map[int]int{
		1: 28,
		2: 29,
		3: 62,
		4: 95,
		7: 177,
		9: 217,
	}
}

// Assignments is the run-wide chapter resolution state: the known-page
// override table, the pages assigned so far, and the derived exclusion
// set. It is created once per run and threaded explicitly through locator
// and orchestrator calls; it is never persisted.
type Assignments struct {
	known    map[int]int
	assigned map[int]int // chapter -> page
	owner    map[int]int // page -> chapter
}

// NewAssignments creates run state seeded with the built-in known-page
// table.
func NewAssignments() *Assignments {
	return &Assignments{
		known:    DefaultKnownPages(),
		assigned: make(map[int]int),
		owner:    make(map[int]int),
	}
}

// MergeKnown overlays extra known-page entries, replacing existing ones.
func (a *Assignments) MergeKnown(pages map[int]int) {
	for chapter, page := range pages {
		a.known[chapter] = page
	}
}

// KnownPage returns the verified start page for a chapter, if the table
// has one.
func (a *Assignments) KnownPage(chapter int) (int, bool) {
	page, ok := a.known[chapter]
	return page, ok
}

// Assigned returns the page already assigned to a chapter this run.
func (a *Assignments) Assigned(chapter int) (int, bool) {
	page, ok := a.assigned[chapter]
	return page, ok
}

// Owner returns the chapter a page is assigned to, if any.
func (a *Assignments) Owner(page int) (int, bool) {
	chapter, ok := a.owner[page]
	return chapter, ok
}

// Excluded reports whether a page is unavailable to the locator because
// another chapter owns it.
func (a *Assignments) Excluded(page int) bool {
	_, ok := a.owner[page]
	return ok
}

// ExcludedPages returns a copy of the exclusion set for a locator call.
func (a *Assignments) ExcludedPages() map[int]bool {
	excluded := make(map[int]bool, len(a.owner))
	for page := range a.owner {
		excluded[page] = true
	}
	return excluded
}

// Assign records a chapter's resolved page, enforcing that no page serves
// two chapters within one run. Assigning the same page to the same chapter
// again is a no-op.
func (a *Assignments) Assign(chapter, page int) error {
	if existing, ok := a.assigned[chapter]; ok {
		if existing == page {
			return nil
		}
		return fmt.Errorf("chapter %d already assigned page %d", chapter, existing)
	}
	if owner, ok := a.owner[page]; ok && owner != chapter {
		return fmt.Errorf("page %d already assigned to chapter %d", page, owner)
	}
	a.assigned[chapter] = page
	a.owner[page] = chapter
	return nil
}

// Table returns the final chapter-to-page assignments, sorted by chapter.
func (a *Assignments) Table() []ChapterPage {
	table := make([]ChapterPage, 0, len(a.assigned))
	for chapter, page := range a.assigned {
		table = append(table, ChapterPage{Chapter: chapter, Page: page})
	}
	sort.Slice(table, func(i, j int) bool { return table[i].Chapter < table[j].Chapter })
	return table
}

// ChapterPage is one row of the final assignment table.
type ChapterPage struct {
	Chapter int
	Page    int
}
