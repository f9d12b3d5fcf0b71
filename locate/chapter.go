package locate

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/hmansour/versecrop/document"
	"github.com/hmansour/versecrop/model"
)

// ChapterConfig holds configuration for chapter start detection
type ChapterConfig struct {
	// MaxWindow is the maximum number of pages scanned forward from the
	// start page before giving up.
	// Default: 200
	MaxWindow int

	// TitleFontSize is the minimum font size for the centered-title
	// indicator.
	// Default: 14
	TitleFontSize float64

	// CenterTolerance is the maximum distance of a title line's center
	// from the page center, as a fraction of page width.
	// Default: 0.25
	CenterTolerance float64

	// ReferenceContext is how many characters before a pattern match are
	// searched for reference words.
	// Default: 30
	ReferenceContext int

	// ReferenceWords mark a match as a citation rather than a title.
	ReferenceWords []string

	// MinIndicators is the indicator count for strong acceptance.
	// Default: 3
	MinIndicators int

	// MinIndicatorsCentered is the indicator count for weak acceptance,
	// which additionally requires the centered-title indicator.
	// Default: 2
	MinIndicatorsCentered int

	// Logger receives per-page detection events. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultChapterConfig returns sensible default configuration
func DefaultChapterConfig() ChapterConfig {
	return ChapterConfig{
		MaxWindow:             200,
		TitleFontSize:         14,
		CenterTolerance:       0.25,
		ReferenceContext:      30,
		ReferenceWords:        []string{"see", "chapter", "surah", "mentioned in", "refer to"},
		MinIndicators:         3,
		MinIndicatorsCentered: 2,
	}
}

// ChapterLocator finds the page on which a numbered chapter begins.
type ChapterLocator struct {
	config ChapterConfig

	parenName   *regexp.Regexp
	invocation  string
	description []*regexp.Regexp
}

// NewChapterLocator creates a locator with default configuration
func NewChapterLocator() *ChapterLocator {
	return NewChapterLocatorWithConfig(DefaultChapterConfig())
}

// NewChapterLocatorWithConfig creates a locator with custom configuration
func NewChapterLocatorWithConfig(config ChapterConfig) *ChapterLocator {
	return &ChapterLocator{
		config:     config,
		parenName:  regexp.MustCompile(`\(\s*[A-Za-z\-']+\s*\)`),
		invocation: "In the Name of Allah",
		description: []*regexp.Regexp{
			regexp.MustCompile(`This .+s[ûu]rah`),
			regexp.MustCompile(`Medinian s[ûu]rah`),
			regexp.MustCompile(`Meccan s[ûu]rah`),
			regexp.MustCompile(`verses were revealed`),
		},
	}
}

// Locate scans forward from startPage for the page where the chapter
// begins, skipping pages in the excluded set. It returns nil when no page
// in the window qualifies; the caller is expected to fall back to a
// known-page table. The first qualifying page wins and there is no
// backtracking.
func (cl *ChapterLocator) Locate(doc document.Document, chapter, startPage int, excluded map[int]bool) (*model.ChapterLocation, error) {
	if chapter < 1 {
		return nil, fmt.Errorf("invalid chapter number %d", chapter)
	}
	logger := cl.config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	patterns := chapterPatterns(chapter)
	end := startPage + cl.config.MaxWindow
	if n := doc.NumPages(); end > n {
		end = n
	}

	for pageNum := startPage; pageNum < end; pageNum++ {
		if excluded[pageNum] {
			continue
		}

		page, err := doc.Page(pageNum)
		if err != nil {
			logger.Debug("skipping unreadable page", "page", pageNum, "error", err)
			continue
		}
		text := page.Text()

		if title, ok := containsTitle(text, chapter); ok {
			logger.Debug("chapter matched by verified title",
				"chapter", chapter, "page", pageNum, "title", title)
			return &model.ChapterLocation{
				Chapter: chapter,
				Page:    pageNum,
				Tier:    model.TierExactTitle,
			}, nil
		}

		match, ok := cl.matchPattern(text, patterns)
		if !ok {
			continue
		}

		count, centered := cl.countIndicators(page, text, match)
		switch {
		case count >= cl.config.MinIndicators:
			logger.Debug("chapter matched by pattern",
				"chapter", chapter, "page", pageNum, "indicators", count)
			return &model.ChapterLocation{
				Chapter: chapter,
				Page:    pageNum,
				Tier:    model.TierStrong,
			}, nil
		case count >= cl.config.MinIndicatorsCentered && centered:
			logger.Debug("chapter matched by pattern (weak acceptance)",
				"chapter", chapter, "page", pageNum, "indicators", count)
			return &model.ChapterLocation{
				Chapter: chapter,
				Page:    pageNum,
				Tier:    model.TierWeak,
			}, nil
		}
	}

	return nil, nil
}

// chapterPatterns builds the generic title patterns anchored on the chapter
// number: "N. The ...", "N. Al-...", and "N. Capitalized".
func chapterPatterns(chapter int) []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(fmt.Sprintf(`\b%d\. The\b`, chapter)),
		regexp.MustCompile(fmt.Sprintf(`\b%d\. Al-\w+\b`, chapter)),
		regexp.MustCompile(fmt.Sprintf(`\b%d\. [A-Z][a-z]+\b`, chapter)),
	}
}

// matchPattern returns the first pattern match in the page text that is not
// preceded by a reference word, distinguishing titles from citations like
// "see 2. The Cow".
func (cl *ChapterLocator) matchPattern(text string, patterns []*regexp.Regexp) (string, bool) {
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			if cl.isReference(text, loc[0]) {
				continue
			}
			return text[loc[0]:loc[1]], true
		}
	}
	return "", false
}

// isReference checks the text immediately before a match for reference
// words.
func (cl *ChapterLocator) isReference(text string, matchStart int) bool {
	ctxStart := matchStart - cl.config.ReferenceContext
	if ctxStart < 0 {
		ctxStart = 0
	}
	before := strings.ToLower(text[ctxStart:matchStart])
	for _, word := range cl.config.ReferenceWords {
		if strings.Contains(before, word) {
			return true
		}
	}
	return false
}

// countIndicators evaluates the four independent layout indicators for a
// pattern-matched page and reports how many hold, along with whether the
// centered-title indicator specifically holds.
func (cl *ChapterLocator) countIndicators(page *model.Page, text, match string) (int, bool) {
	count := 0

	centered := cl.hasCenteredTitle(page, match)
	if centered {
		count++
	}
	if cl.parenName.MatchString(text) {
		count++
	}
	if strings.Contains(text, cl.invocation) {
		count++
	}
	if cl.hasDescription(text) {
		count++
	}

	return count, centered
}

// hasCenteredTitle checks whether the matched title text sits on a line
// that is horizontally centered and rendered in a large font.
func (cl *ChapterLocator) hasCenteredTitle(page *model.Page, match string) bool {
	tolerance := page.Width * cl.config.CenterTolerance
	pageCenter := page.Width / 2

	for _, line := range page.Lines() {
		if !strings.Contains(line.Text, match) {
			continue
		}
		offCenter := line.BBox.Center().X - pageCenter
		if offCenter < 0 {
			offCenter = -offCenter
		}
		if offCenter < tolerance && line.MaxFontSize() > cl.config.TitleFontSize {
			return true
		}
	}
	return false
}

func (cl *ChapterLocator) hasDescription(text string) bool {
	for _, p := range cl.description {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
