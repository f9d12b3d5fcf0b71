package locate

// ScoreEvidence is the styled-run evidence for one verse-marker candidate.
type ScoreEvidence struct {
	// Bold reports whether the run containing the digits is bold.
	Bold bool
	// FontSize is the font size of that run.
	FontSize float64
	// LineOffset is the byte offset of the match within its line's text.
	LineOffset int
	// DigitCount is the length of the matched digit string.
	DigitCount int
}

// ScorePolicy converts candidate evidence into an integer confidence score.
// Policies must be pure so they can be exercised against synthetic fixtures
// without a document.
type ScorePolicy func(ev ScoreEvidence) int

// Verse-marker confidence weights. The additive score ranges 0-7; only
// candidates scoring at least MinConfidence are retained.
const (
	weightBold     = 3
	weightLeading  = 2
	weightFontSize = 1
	weightDigits   = 1

	// MinConfidence is the retention threshold for verse candidates.
	MinConfidence = 2
	// MaxConfidence is the highest score the default policy can produce.
	MaxConfidence = weightBold + weightLeading + weightFontSize + weightDigits

	largeFontSize    = 10
	leadingOffsetMax = 5
	maxDigitCount    = 3
)

// DefaultScorePolicy is the standard additive confidence score: bold +3,
// leading position +2, font size above 10 +1, digit string of one to three
// characters +1.
func DefaultScorePolicy(ev ScoreEvidence) int {
	score := 0
	if ev.Bold {
		score += weightBold
	}
	if ev.LineOffset < leadingOffsetMax {
		score += weightLeading
	}
	if ev.FontSize > largeFontSize {
		score += weightFontSize
	}
	if ev.DigitCount >= 1 && ev.DigitCount <= maxDigitCount {
		score += weightDigits
	}
	return score
}
