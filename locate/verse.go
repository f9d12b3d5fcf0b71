package locate

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/hmansour/versecrop/document"
	"github.com/hmansour/versecrop/model"
)

// VerseScannerConfig holds configuration for verse position scanning
type VerseScannerConfig struct {
	// MinVerse and MaxVerse bound the sane verse numbers; candidates
	// outside this range are discarded as page numbers, years, or other
	// stray numerics.
	// Default: 1 and 300
	MinVerse int
	MaxVerse int

	// MinConfidence is the retention threshold for scored candidates.
	// Default: 2
	MinConfidence int

	// Score converts candidate evidence into a confidence score.
	// Default: DefaultScorePolicy
	Score ScorePolicy

	// PrefaceMinLength is the minimum text length for a block to count
	// as preface material.
	// Default: 10
	PrefaceMinLength int

	// PrefaceTopMargin and PrefaceBottomMargin bound preface blocks as
	// fractions of page height; blocks touching the margins are page
	// furniture, not preface.
	// Defaults: 0.05 and 0.90
	PrefaceTopMargin    float64
	PrefaceBottomMargin float64

	// Logger receives per-page scan events. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultVerseScannerConfig returns sensible default configuration
func DefaultVerseScannerConfig() VerseScannerConfig {
	return VerseScannerConfig{
		MinVerse:            1,
		MaxVerse:            300,
		MinConfidence:       MinConfidence,
		Score:               DefaultScorePolicy,
		PrefaceMinLength:    10,
		PrefaceTopMargin:    0.05,
		PrefaceBottomMargin: 0.90,
	}
}

// VerseScanner finds the vertical positions of verse markers within a
// chapter's page window.
type VerseScanner struct {
	config VerseScannerConfig

	marker *regexp.Regexp
	loose  *regexp.Regexp
}

// NewVerseScanner creates a scanner with default configuration
func NewVerseScanner() *VerseScanner {
	return NewVerseScannerWithConfig(DefaultVerseScannerConfig())
}

// NewVerseScannerWithConfig creates a scanner with custom configuration
func NewVerseScannerWithConfig(config VerseScannerConfig) *VerseScanner {
	if config.Score == nil {
		config.Score = DefaultScorePolicy
	}
	return &VerseScanner{
		config: config,
		marker: regexp.MustCompile(`(\d+)\.\s`),
		loose:  regexp.MustCompile(`(\d+)\.`),
	}
}

// ScanResult holds everything the scanner learned about a chapter window.
type ScanResult struct {
	// Positions holds every retained candidate, including verses outside
	// the target set; region selection needs following verses too.
	Positions model.PositionIndex

	// Found is the subset of target verses located at least once.
	Found map[int]bool

	// Preface is the vertical span of the chapter's introductory text on
	// the start page, present only when verse 1 was targeted and a
	// preface was detected.
	Preface *model.PrefaceSpan

	// SkippedPages lists pages that could not be read.
	SkippedPages []int
}

// Missing returns the target verses that were never located, ascending.
func (r *ScanResult) Missing(targets []int) []int {
	var missing []int
	for _, v := range targets {
		if !r.Found[v] {
			missing = append(missing, v)
		}
	}
	return missing
}

// Scan walks pages in [startPage, boundPage), collecting scored verse
// marker candidates. Scanning stops the page after all target verses have
// been located at least once, but never before the first page containing a
// target match, so verses appearing out of strict order across a page
// boundary are still caught.
func (vs *VerseScanner) Scan(doc document.Document, startPage, boundPage int, targets []int) (*ScanResult, error) {
	if startPage >= boundPage {
		return nil, fmt.Errorf("empty page window [%d, %d)", startPage, boundPage)
	}
	logger := vs.config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	targetSet := make(map[int]bool, len(targets))
	for _, v := range targets {
		targetSet[v] = true
	}

	result := &ScanResult{
		Positions: make(model.PositionIndex),
		Found:     make(map[int]bool),
	}

	firstMatch := -1
	for pageNum := startPage; pageNum < boundPage; pageNum++ {
		page, err := doc.Page(pageNum)
		if err != nil {
			logger.Debug("skipping unreadable page", "page", pageNum, "error", err)
			result.SkippedPages = append(result.SkippedPages, pageNum)
			continue
		}

		if pageNum == startPage && targetSet[1] {
			result.Preface = vs.detectPreface(page)
		}

		if vs.scanPage(page, targetSet, result) && firstMatch < 0 {
			firstMatch = pageNum
		}

		if firstMatch >= 0 && pageNum > firstMatch && allFound(targetSet, result.Found) {
			break
		}
	}

	logger.Debug("verse scan complete",
		"start", startPage, "targets", len(targets), "found", len(result.Found))
	return result, nil
}

// scanPage collects candidates from one page and reports whether any
// target verse matched on it.
func (vs *VerseScanner) scanPage(page *model.Page, targets map[int]bool, result *ScanResult) bool {
	matchedTarget := false
	for _, line := range page.Lines() {
		for _, cand := range vs.lineCandidates(line) {
			score := vs.config.Score(cand.evidence)
			if score < vs.config.MinConfidence {
				continue
			}
			result.Positions.Add(model.VersePosition{
				Verse:      cand.verse,
				Page:       page.Index,
				Y:          line.BBox.Y,
				Confidence: score,
				BBox:       cand.bbox,
			})
			if targets[cand.verse] {
				result.Found[cand.verse] = true
				matchedTarget = true
			}
		}
	}
	return matchedTarget
}

// lineCandidate is one plausible verse marker on a line, before scoring.
type lineCandidate struct {
	verse    int
	evidence ScoreEvidence
	bbox     model.BBox
}

// lineCandidates extracts verse-marker candidates from one line. The
// primary pattern requires digits, a period, then whitespace; when it never
// matches on the line, a loosened pattern accepts digits and a period
// provided the digits are not part of a larger number. Candidates with no
// verse text after the marker, or outside the sane numeric bounds, are
// discarded.
func (vs *VerseScanner) lineCandidates(line model.Line) []lineCandidate {
	matches := vs.marker.FindAllStringSubmatchIndex(line.Text, -1)
	if len(matches) == 0 {
		matches = vs.looseMatches(line.Text)
	}

	var candidates []lineCandidate
	for _, m := range matches {
		start, end := m[0], m[1]
		digits := line.Text[m[2]:m[3]]

		if strings.TrimSpace(line.Text[end:]) == "" {
			continue
		}
		verse, err := strconv.Atoi(digits)
		if err != nil || verse < vs.config.MinVerse || verse > vs.config.MaxVerse {
			continue
		}

		ev := ScoreEvidence{
			LineOffset: start,
			DigitCount: len(digits),
		}
		bbox := line.BBox
		if run := line.RunAt(start); run != nil {
			ev.Bold = run.Style.Bold
			ev.FontSize = run.FontSize
			bbox = run.BBox
		}
		candidates = append(candidates, lineCandidate{
			verse:    verse,
			evidence: ev,
			bbox:     bbox,
		})
	}
	return candidates
}

// looseMatches applies the fallback pattern: digits followed by a period
// where the period does not continue a larger number (so "12." in "12.5"
// is rejected). The digit run's left boundary is guaranteed by the greedy
// match.
func (vs *VerseScanner) looseMatches(text string) [][]int {
	var matches [][]int
	for _, m := range vs.loose.FindAllStringSubmatchIndex(text, -1) {
		end := m[1]
		if end < len(text) && text[end] >= '0' && text[end] <= '9' {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

func allFound(targets, found map[int]bool) bool {
	for v := range targets {
		if !found[v] {
			return false
		}
	}
	return true
}
