package viewer

import (
	"errors"
	"fmt"
	"io"

	"github.com/dslipak/pdf"
)

// points to CSS pixels
const pointsToPixels = 96.0 / 72.0

// Info is what the preview needs to know about a document before showing it.
type Info struct {
	Pages int
	// Width of page 1 at scale 1, in CSS pixels. Zero when unknown.
	PageWidth float64
}

var ErrNoPages = errors.New("document has no pages")

// Inspect reads the page tree. The parser panics on some malformed files, so
// panics are turned into errors.
func Inspect(r io.ReaderAt, size int64) (info Info, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("read pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open pdf: %w", err)
	}
	info.Pages = reader.NumPage()
	if info.Pages < 1 {
		return Info{}, ErrNoPages
	}
	if width, ok := mediaBoxWidth(reader.Page(1).V); ok {
		info.PageWidth = width * pointsToPixels
	}
	return info, nil
}

// mediaBoxWidth walks up the page tree until a MediaBox is found.
func mediaBoxWidth(v pdf.Value) (float64, bool) {
	for depth := 0; !v.IsNull() && depth < 32; depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			if w > 0 {
				return w, true
			}
		}
		v = v.Key("Parent")
	}
	return 0, false
}
