package locate

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// chapterTitles maps chapter numbers to hand-verified title strings that
// identify the chapter's start page with highest trust. Entries cover the
// renderings observed in the source edition, including transliterations.
var chapterTitles = map[int][]string{
	1: {"1. The Opening", "1. Al-Fatiha"},
	2: {"The Cow", "Al-Baqarah"},
	3: {"The Family of", "Aali Imran", "Âli-'Imrân"},
	4: {"Women", "An-Nisa"},
	7: {"The Heights", "Al-A'raf"},
	9: {"Repentance", "At-Tawbah"},
}

// foldTitle lowercases a string and strips combining diacritical marks so
// that accented transliterations ("Âli-'Imrân") compare equal to their
// plain renderings.
func foldTitle(s string) string {
	stripped, _, err := transform.String(foldTransformer(), s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(stripped)
}

func foldTransformer() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
}

// containsTitle reports whether the page text contains one of the chapter's
// verified titles, comparing diacritic-folded.
func containsTitle(pageText string, chapter int) (string, bool) {
	titles := chapterTitles[chapter]
	if len(titles) == 0 {
		return "", false
	}
	folded := foldTitle(pageText)
	for _, title := range titles {
		if strings.Contains(folded, foldTitle(title)) {
			return title, true
		}
	}
	return "", false
}
