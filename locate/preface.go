package locate

import (
	"strings"

	"github.com/hmansour/versecrop/model"
)

// detectPreface scans a chapter's start page for the descriptive text that
// precedes verse 1. Preface blocks are distinguished by non-default text
// color or italic styling, carry a minimum amount of text, and sit clear of
// the top and bottom page margins. The returned span is the vertical union
// of every qualifying block, or nil when none qualify.
func (vs *VerseScanner) detectPreface(page *model.Page) *model.PrefaceSpan {
	topLimit := page.Height * vs.config.PrefaceTopMargin
	bottomLimit := page.Height * vs.config.PrefaceBottomMargin

	var span *model.PrefaceSpan
	for i := range page.Blocks {
		block := &page.Blocks[i]
		if block.BBox.Top() <= topLimit || block.BBox.Bottom() >= bottomLimit {
			continue
		}
		if len(strings.TrimSpace(block.Text())) <= vs.config.PrefaceMinLength {
			continue
		}
		if !block.HasStyle(prefaceStyle) {
			continue
		}

		if span == nil {
			span = &model.PrefaceSpan{
				Page:  page.Index,
				Start: block.BBox.Top(),
				End:   block.BBox.Bottom(),
			}
			continue
		}
		if block.BBox.Top() < span.Start {
			span.Start = block.BBox.Top()
		}
		if block.BBox.Bottom() > span.End {
			span.End = block.BBox.Bottom()
		}
	}
	return span
}

func prefaceStyle(r model.StyledRun) bool {
	return r.Style.Italic || !r.Style.Color.IsDefault()
}
