package crop

import (
	"fmt"
	"image"
	"testing"

	"github.com/hmansour/versecrop/model"
)

// sizedDocument provides page dimensions only; region selection never
// reads page content.
type sizedDocument struct {
	width, height float64
	numPages      int
	failSizes     map[int]bool
}

func (d *sizedDocument) NumPages() int { return d.numPages }

func (d *sizedDocument) Page(index int) (*model.Page, error) {
	return model.NewPage(index, d.width, d.height), nil
}

func (d *sizedDocument) Text(index int) (string, error) { return "", nil }

func (d *sizedDocument) PageSize(index int) (float64, float64, error) {
	if d.failSizes[index] {
		return 0, 0, fmt.Errorf("no size for page %d", index)
	}
	return d.width, d.height, nil
}

func (d *sizedDocument) Render(index int, zoom float64) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, int(d.width*zoom), int(d.height*zoom))), nil
}

func (d *sizedDocument) Close() error { return nil }

func testDoc() *sizedDocument {
	return &sizedDocument{width: 612, height: 792, numPages: 300}
}

func addPosition(idx model.PositionIndex, page, verse int, y float64, confidence int) {
	idx.Add(model.VersePosition{Verse: verse, Page: page, Y: y, Confidence: confidence})
}

func TestSelectBoundaries(t *testing.T) {
	idx := make(model.PositionIndex)
	addPosition(idx, 30, 1, 120, 5)
	addPosition(idx, 30, 2, 300, 4)
	addPosition(idx, 30, 4, 450, 4) // present on the page but not requested

	regions, err := NewRegionSelector().Select(testDoc(), idx, nil, 1, 2, 30)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(regions))
	}

	r := regions[0]
	if !r.Croppable {
		t.Fatal("region not croppable")
	}
	// zoom 3: top = (120-60)*3, bottom = (450-20)*3 from the next marker.
	if want := 180.0; r.Start != want {
		t.Errorf("Start = %v, want %v", r.Start, want)
	}
	if want := 1290.0; r.End != want {
		t.Errorf("End = %v, want %v", r.End, want)
	}
}

func TestSelectPrefaceOverridesTop(t *testing.T) {
	idx := make(model.PositionIndex)
	addPosition(idx, 30, 1, 200, 5)
	addPosition(idx, 30, 2, 400, 4)
	addPosition(idx, 30, 3, 500, 4)

	preface := &model.PrefaceSpan{Page: 30, Start: 100, End: 180}

	regions, err := NewRegionSelector().Select(testDoc(), idx, preface, 1, 2, 30)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	r := regions[0]
	if want := (100.0 - 60) * 3; r.Start != want {
		t.Errorf("Start = %v, want %v (preface start minus preface pad)", r.Start, want)
	}

	// A range starting at verse 2 ignores the preface.
	regions, err = NewRegionSelector().Select(testDoc(), idx, preface, 2, 2, 30)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	r = regions[0]
	if want := (400.0 - 60) * 3; r.Start != want {
		t.Errorf("Start = %v, want %v (preface only applies to verse 1)", r.Start, want)
	}
}

func TestSelectTrailingPad(t *testing.T) {
	idx := make(model.PositionIndex)
	addPosition(idx, 30, 5, 200, 5)

	regions, err := NewRegionSelector().Select(testDoc(), idx, nil, 5, 5, 30)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	r := regions[0]
	if want := (200.0 + 120) * 3; r.End != want {
		t.Errorf("End = %v, want %v (no following verse extends by the trailing pad)", r.End, want)
	}
}

func TestSelectClampsToPage(t *testing.T) {
	idx := make(model.PositionIndex)
	addPosition(idx, 30, 1, 10, 5)   // above the start pad
	addPosition(idx, 30, 2, 780, 4)  // trailing pad would pass the bottom

	regions, err := NewRegionSelector().Select(testDoc(), idx, nil, 1, 2, 30)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	r := regions[0]
	if r.Start != 0 {
		t.Errorf("Start = %v, want 0 (clamped)", r.Start)
	}
	if want := 792.0 * 3; r.End != want {
		t.Errorf("End = %v, want %v (clamped to page height)", r.End, want)
	}
	if r.Croppable {
		t.Error("region spanning the full page must be non-croppable")
	}
}

func TestSelectDegenerateFallsBackToFullPage(t *testing.T) {
	// A false-positive "following" marker above the latest target makes
	// the bottom land above the top.
	idx := make(model.PositionIndex)
	addPosition(idx, 30, 8, 500, 5)
	addPosition(idx, 30, 9, 100, 2)

	regions, err := NewRegionSelector().Select(testDoc(), idx, nil, 8, 8, 30)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	r := regions[0]
	if r.Croppable {
		t.Error("degenerate region reported croppable")
	}
	if r.Start != 0 || r.End != 792*3 {
		t.Errorf("fallback region = [%v, %v], want full page", r.Start, r.End)
	}
}

func TestSelectNoRelevantPages(t *testing.T) {
	idx := make(model.PositionIndex)
	addPosition(idx, 31, 40, 300, 5) // outside the requested interval

	regions, err := NewRegionSelector().Select(testDoc(), idx, nil, 1, 3, 30)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(regions))
	}
	r := regions[0]
	if r.Page != 30 || r.Croppable {
		t.Errorf("region = %+v, want non-croppable full chapter start page 30", r)
	}
}

func TestSelectOrdersPagesAscending(t *testing.T) {
	idx := make(model.PositionIndex)
	addPosition(idx, 33, 7, 100, 5)
	addPosition(idx, 31, 5, 100, 5)
	addPosition(idx, 32, 6, 100, 5)
	addPosition(idx, 31, 6, 600, 5)

	regions, err := NewRegionSelector().Select(testDoc(), idx, nil, 5, 7, 30)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(regions) != 3 {
		t.Fatalf("got %d regions, want 3", len(regions))
	}
	for i, want := range []int{31, 32, 33} {
		if regions[i].Page != want {
			t.Errorf("regions[%d].Page = %d, want %d", i, regions[i].Page, want)
		}
	}
	for _, r := range regions {
		if r.Croppable && r.Start >= r.End {
			t.Errorf("page %d: croppable region with start %v >= end %v", r.Page, r.Start, r.End)
		}
	}
}

func TestSelectPageSizeError(t *testing.T) {
	doc := testDoc()
	doc.failSizes = map[int]bool{30: true}

	idx := make(model.PositionIndex)
	addPosition(idx, 30, 1, 120, 5)

	if _, err := NewRegionSelector().Select(doc, idx, nil, 1, 1, 30); err == nil {
		t.Error("Select returned nil error for an unsizable page")
	}
}

func TestSelectInvalidInterval(t *testing.T) {
	if _, err := NewRegionSelector().Select(testDoc(), make(model.PositionIndex), nil, 5, 2, 30); err == nil {
		t.Error("Select with reversed interval returned nil error")
	}
}
