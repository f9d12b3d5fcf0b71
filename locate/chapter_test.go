package locate

import (
	"testing"

	"github.com/hmansour/versecrop/model"
)

// makeChapterPage builds a chapter start page for the given chapter number
// with a configurable set of layout indicators.
func makeChapterPage(index, chapter int, centered, paren, invocation, description bool) *model.Page {
	title := "5. The Table"
	if chapter == 7 {
		title = "7. The Heights of Grace"
	}

	var lines []model.Line
	if centered {
		// Line center 306 on a 612pt page, 18pt font.
		lines = append(lines, makeTextLine(title, 256, 80, 100, 18, true))
	} else {
		lines = append(lines, makeTextLine(title, 72, 80, 100, 10, false))
	}
	if paren {
		lines = append(lines, makeTextLine("(Al-Ma'idah)", 270, 110, 72, 12, false))
	}
	if invocation {
		lines = append(lines, makeTextLine("In the Name of Allah, the Most Gracious", 150, 140, 312, 11, false))
	}
	if description {
		lines = append(lines, makeTextLine("This glorious sûrah deals with covenants.", 90, 170, 430, 10, false))
	}
	lines = append(lines, makeVerseLine(220, 1, "O you who believe, fulfil your obligations.", true, 11))

	return makeLinePage(index, lines...)
}

func TestChapterLocatorExactTitle(t *testing.T) {
	doc := newFakeDocument(60)
	page := model.NewPage(40, 612, 792)
	page.AddBlock(model.Block{Lines: []model.Line{
		makeTextLine("2. The Cow", 260, 80, 90, 16, true),
	}})
	doc.addPage(page)

	loc, err := NewChapterLocator().Locate(doc, 2, 28, nil)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if loc == nil {
		t.Fatal("Locate returned nil, want page 40")
	}
	if loc.Page != 40 {
		t.Errorf("Page = %d, want 40", loc.Page)
	}
	if loc.Tier != model.TierExactTitle {
		t.Errorf("Tier = %v, want ExactTitle", loc.Tier)
	}
}

func TestChapterLocatorFoldsDiacritics(t *testing.T) {
	doc := newFakeDocument(60)
	page := model.NewPage(35, 612, 792)
	page.AddBlock(model.Block{Lines: []model.Line{
		makeTextLine("3. Ali-'Imran", 258, 80, 96, 16, true),
	}})
	doc.addPage(page)

	loc, err := NewChapterLocator().Locate(doc, 3, 28, nil)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if loc == nil {
		t.Fatal("Locate returned nil; accented title table should match plain rendering")
	}
	if loc.Page != 35 || loc.Tier != model.TierExactTitle {
		t.Errorf("got page %d tier %v, want page 35 tier ExactTitle", loc.Page, loc.Tier)
	}
}

func TestChapterLocatorIndicatorAcceptance(t *testing.T) {
	tests := []struct {
		name        string
		centered    bool
		paren       bool
		invocation  bool
		description bool
		wantFound   bool
		wantTier    model.ConfidenceTier
	}{
		{"all four indicators", true, true, true, true, true, model.TierStrong},
		{"three without centered", false, true, true, true, true, model.TierStrong},
		{"two with centered", true, false, true, false, true, model.TierWeak},
		{"two without centered", false, true, true, false, false, 0},
		{"one indicator only", true, false, false, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newFakeDocument(60)
			doc.addPage(makeChapterPage(42, 5, tt.centered, tt.paren, tt.invocation, tt.description))

			loc, err := NewChapterLocator().Locate(doc, 5, 28, nil)
			if err != nil {
				t.Fatalf("Locate returned error: %v", err)
			}
			if tt.wantFound {
				if loc == nil {
					t.Fatal("Locate returned nil, want a location")
				}
				if loc.Page != 42 {
					t.Errorf("Page = %d, want 42", loc.Page)
				}
				if loc.Tier != tt.wantTier {
					t.Errorf("Tier = %v, want %v", loc.Tier, tt.wantTier)
				}
			} else if loc != nil {
				t.Errorf("Locate = %+v, want nil", loc)
			}
		})
	}
}

func TestChapterLocatorRejectsReferences(t *testing.T) {
	doc := newFakeDocument(80)

	// An earlier page cites the chapter; the real start page comes later.
	citing := model.NewPage(30, 612, 792)
	citing.AddBlock(model.Block{Lines: []model.Line{
		makeTextLine("as mentioned in 5. The Table earlier", 90, 300, 300, 10, false),
		makeTextLine("(Al-Ma'idah)", 270, 330, 72, 10, false),
		makeTextLine("In the Name of Allah appears in every chapter", 90, 360, 380, 10, false),
	}})
	doc.addPage(citing)
	doc.addPage(makeChapterPage(45, 5, true, true, true, true))

	loc, err := NewChapterLocator().Locate(doc, 5, 28, nil)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if loc == nil {
		t.Fatal("Locate returned nil, want page 45")
	}
	if loc.Page != 45 {
		t.Errorf("Page = %d, want 45 (page 30 is a citation)", loc.Page)
	}
}

func TestChapterLocatorSkipsExcludedPages(t *testing.T) {
	doc := newFakeDocument(80)
	doc.addPage(makeChapterPage(42, 5, true, true, true, true))

	excluded := map[int]bool{42: true}
	loc, err := NewChapterLocator().Locate(doc, 5, 28, excluded)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if loc != nil {
		t.Errorf("Locate = %+v, want nil when the only match is excluded", loc)
	}
}

func TestChapterLocatorWindowBound(t *testing.T) {
	doc := newFakeDocument(300)
	doc.addPage(makeChapterPage(150, 5, true, true, true, true))

	cfg := DefaultChapterConfig()
	cfg.MaxWindow = 50
	loc, err := NewChapterLocatorWithConfig(cfg).Locate(doc, 5, 28, nil)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if loc != nil {
		t.Errorf("Locate = %+v, want nil for a page outside the window", loc)
	}

	loc, err = NewChapterLocator().Locate(doc, 5, 28, nil)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if loc == nil || loc.Page != 150 {
		t.Errorf("default window: got %+v, want page 150", loc)
	}
}

func TestChapterLocatorNotFound(t *testing.T) {
	doc := newFakeDocument(60)

	loc, err := NewChapterLocator().Locate(doc, 5, 28, nil)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if loc != nil {
		t.Errorf("Locate = %+v, want nil on a blank document", loc)
	}
}

func TestChapterLocatorSkipsUnreadablePages(t *testing.T) {
	doc := newFakeDocument(80)
	doc.failPages[30] = true
	doc.addPage(makeChapterPage(45, 5, true, true, true, true))

	loc, err := NewChapterLocator().Locate(doc, 5, 28, nil)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if loc == nil || loc.Page != 45 {
		t.Errorf("got %+v, want page 45 past the unreadable page", loc)
	}
}

func TestChapterLocatorInvalidChapter(t *testing.T) {
	doc := newFakeDocument(10)
	if _, err := NewChapterLocator().Locate(doc, 0, 0, nil); err == nil {
		t.Error("Locate(chapter 0) returned nil error, want error")
	}
}
