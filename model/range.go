package model

import (
	"fmt"
	"sort"
)

// VerseRef identifies one verse as a (chapter, verse) pair.
type VerseRef struct {
	Chapter int
	Verse   int
}

// Before reports whether v orders strictly before other, comparing by
// chapter then verse.
func (v VerseRef) Before(other VerseRef) bool {
	if v.Chapter != other.Chapter {
		return v.Chapter < other.Chapter
	}
	return v.Verse < other.Verse
}

func (v VerseRef) String() string {
	return fmt.Sprintf("%d:%d", v.Chapter, v.Verse)
}

// VerseRange is an inclusive span of verses. Start must not order after
// End; ranges spanning two chapters are split by the orchestrator before
// region selection.
type VerseRange struct {
	Start VerseRef
	End   VerseRef
}

// NewVerseRange builds a range from explicit chapter/verse numbers.
func NewVerseRange(startChapter, startVerse, endChapter, endVerse int) VerseRange {
	return VerseRange{
		Start: VerseRef{Chapter: startChapter, Verse: startVerse},
		End:   VerseRef{Chapter: endChapter, Verse: endVerse},
	}
}

// Valid reports whether the range is well formed: positive numbers and
// Start ≤ End in (chapter, verse) order.
func (r VerseRange) Valid() bool {
	if r.Start.Chapter < 1 || r.Start.Verse < 1 || r.End.Chapter < 1 || r.End.Verse < 1 {
		return false
	}
	return !r.End.Before(r.Start)
}

// SameChapter reports whether the range lies within a single chapter.
func (r VerseRange) SameChapter() bool {
	return r.Start.Chapter == r.End.Chapter
}

func (r VerseRange) String() string {
	if r.Start == r.End {
		return r.Start.String()
	}
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// ConfidenceTier classifies how a chapter start page was matched.
type ConfidenceTier int

const (
	// TierExactTitle means a hand-verified title string matched.
	TierExactTitle ConfidenceTier = iota
	// TierStrong means a pattern match confirmed by at least three
	// layout indicators.
	TierStrong
	// TierWeak means a pattern match confirmed by two indicators, one of
	// them the centered large title.
	TierWeak
)

func (t ConfidenceTier) String() string {
	switch t {
	case TierExactTitle:
		return "ExactTitle"
	case TierStrong:
		return "Strong"
	case TierWeak:
		return "Weak"
	default:
		return "Unknown"
	}
}

// ChapterLocation records the resolved start page of one chapter. At most
// one exists per chapter per run.
type ChapterLocation struct {
	Chapter int
	Page    int
	Tier    ConfidenceTier
}

// VersePosition is one scored candidate position for a verse marker.
type VersePosition struct {
	Verse      int
	Page       int
	Y          float64 // top of the containing line, document units
	Confidence int
	BBox       BBox
}

// PositionIndex maps page index to verse number to the retained candidate
// positions on that page. All candidates passing the confidence threshold
// are kept; consumers pick by confidence and position.
type PositionIndex map[int]map[int][]VersePosition

// Add inserts a candidate position.
func (idx PositionIndex) Add(pos VersePosition) {
	verses, ok := idx[pos.Page]
	if !ok {
		verses = make(map[int][]VersePosition)
		idx[pos.Page] = verses
	}
	verses[pos.Verse] = append(verses[pos.Verse], pos)
}

// Pages returns the indexed page numbers in ascending order.
func (idx PositionIndex) Pages() []int {
	pages := make([]int, 0, len(idx))
	for p := range idx {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// VersesOn returns the verse numbers indexed on a page, ascending.
func (idx PositionIndex) VersesOn(page int) []int {
	verses := make([]int, 0, len(idx[page]))
	for v := range idx[page] {
		verses = append(verses, v)
	}
	sort.Ints(verses)
	return verses
}

// Best returns the preferred candidate for a verse on a page: highest
// confidence, breaking ties by topmost position.
func (idx PositionIndex) Best(page, verse int) (VersePosition, bool) {
	candidates := idx[page][verse]
	if len(candidates) == 0 {
		return VersePosition{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence ||
			(c.Confidence == best.Confidence && c.Y < best.Y) {
			best = c
		}
	}
	return best, true
}

// FirstBelow returns the topmost position on a page belonging to any verse
// strictly greater than the given verse number.
func (idx PositionIndex) FirstBelow(page, verse int) (VersePosition, bool) {
	var best VersePosition
	found := false
	for v, candidates := range idx[page] {
		if v <= verse {
			continue
		}
		for _, c := range candidates {
			if !found || c.Y < best.Y {
				best = c
				found = true
			}
		}
	}
	return best, found
}

// PrefaceSpan is the vertical extent of a chapter's introductory text on
// its start page, in document units.
type PrefaceSpan struct {
	Page  int
	Start float64
	End   float64
}
