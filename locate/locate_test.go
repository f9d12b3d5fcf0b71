package locate

import (
	"fmt"
	"image"

	"github.com/hmansour/versecrop/model"
)

// fakeDocument serves synthetic pages for detector tests.
type fakeDocument struct {
	pages     map[int]*model.Page
	numPages  int
	failPages map[int]bool
}

func newFakeDocument(numPages int) *fakeDocument {
	return &fakeDocument{
		pages:     make(map[int]*model.Page),
		numPages:  numPages,
		failPages: make(map[int]bool),
	}
}

func (d *fakeDocument) addPage(p *model.Page) {
	d.pages[p.Index] = p
	if p.Index >= d.numPages {
		d.numPages = p.Index + 1
	}
}

func (d *fakeDocument) NumPages() int { return d.numPages }

func (d *fakeDocument) Page(index int) (*model.Page, error) {
	if d.failPages[index] {
		return nil, fmt.Errorf("unreadable page %d", index)
	}
	if p, ok := d.pages[index]; ok {
		return p, nil
	}
	return model.NewPage(index, 612, 792), nil
}

func (d *fakeDocument) Text(index int) (string, error) {
	p, err := d.Page(index)
	if err != nil {
		return "", err
	}
	return p.Text(), nil
}

func (d *fakeDocument) PageSize(index int) (float64, float64, error) {
	p, err := d.Page(index)
	if err != nil {
		return 0, 0, err
	}
	return p.Width, p.Height, nil
}

func (d *fakeDocument) Render(index int, zoom float64) (image.Image, error) {
	p, err := d.Page(index)
	if err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, int(p.Width*zoom), int(p.Height*zoom))), nil
}

func (d *fakeDocument) Close() error { return nil }

// makeTextLine builds a single-run line at the given position.
func makeTextLine(text string, x, y, width, fontSize float64, bold bool) model.Line {
	return model.Line{
		Text: text,
		BBox: model.NewBBox(x, y, width, fontSize*1.2),
		Runs: []model.StyledRun{
			{
				Text:     text,
				Offset:   0,
				FontSize: fontSize,
				BBox:     model.NewBBox(x, y, width, fontSize*1.2),
				Style:    model.TextStyle{Bold: bold},
			},
		},
	}
}

// makeVerseLine builds a line opening with a verse marker run followed by a
// body run, the shape the scanner scores.
func makeVerseLine(y float64, verse int, body string, bold bool, fontSize float64) model.Line {
	marker := fmt.Sprintf("%d. ", verse)
	return model.Line{
		Text: marker + body,
		BBox: model.NewBBox(72, y, 450, fontSize*1.2),
		Runs: []model.StyledRun{
			{
				Text:     marker,
				Offset:   0,
				FontSize: fontSize,
				BBox:     model.NewBBox(72, y, 28, fontSize*1.2),
				Style:    model.TextStyle{Bold: bold},
			},
			{
				Text:     body,
				Offset:   len(marker),
				FontSize: fontSize,
				BBox:     model.NewBBox(100, y, 422, fontSize*1.2),
			},
		},
	}
}

// makeLinePage wraps lines into single-line blocks on a letter-sized page.
func makeLinePage(index int, lines ...model.Line) *model.Page {
	p := model.NewPage(index, 612, 792)
	for _, l := range lines {
		p.AddBlock(model.Block{BBox: l.BBox, Lines: []model.Line{l}})
	}
	return p
}
