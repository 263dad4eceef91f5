package card

import (
	"fmt"

	"golang.org/x/image/font"
)

// lineHeightSample stands in for ascender plus descender when computing the
// shared line pitch of a block.
const lineHeightSample = "Ay"

// FitOptions bounds the font-size search of Fit.
type FitOptions struct {
	MaxSize float64
	MinSize float64
	Step    float64

	AreaWidth  int
	AreaHeight int

	InnerPadding  int // wrap width is AreaWidth - InnerPadding
	BottomReserve int // height bound is AreaHeight - BottomReserve
	Leading       int

	// StrictWidth also rejects sizes at which a single word overflows the
	// wrap width.
	StrictWidth bool
}

// DefaultFitOptions returns the stock search for a region of the given size.
func DefaultFitOptions(areaWidth, areaHeight int) FitOptions {
	return FitOptions{
		MaxSize:       110,
		MinSize:       30,
		Step:          2,
		AreaWidth:     areaWidth,
		AreaHeight:    areaHeight,
		InnerPadding:  40,
		BottomReserve: 120,
		Leading:       8,
		StrictWidth:   true,
	}
}

// Fit scans sizes from MaxSize down to MinSize and returns the first (largest)
// one whose wrapped text fits. Every size is tried: fit is not monotonic in
// size once wrapping changes the line count. When nothing fits,
// the block is built at MinSize and marked Overflow; that is not an error.
func Fit(fp FontProvider, text string, opts FitOptions) (*TextBlock, error) {
	if opts.Step <= 0 {
		return nil, fmt.Errorf("fit step must be positive, got %v", opts.Step)
	}
	if opts.MinSize <= 0 || opts.MinSize > opts.MaxSize {
		return nil, fmt.Errorf("invalid fit range [%v, %v]", opts.MinSize, opts.MaxSize)
	}

	wrapWidth := opts.AreaWidth - opts.InnerPadding
	maxHeight := opts.AreaHeight - opts.BottomReserve

	if !fp.Scalable() {
		return fitFixed(fp, text, wrapWidth, maxHeight, opts)
	}

	for size := opts.MaxSize; size >= opts.MinSize; size -= opts.Step {
		face, err := fp.Face(RoleTitle, size)
		if err != nil {
			return nil, err
		}

		lines := Wrap(face, text, wrapWidth)
		height := blockHeight(face, lines, opts.Leading)
		if height <= maxHeight && (!opts.StrictWidth || linesFit(face, lines, wrapWidth)) {
			Logger().Debug("title size selected", "size", size, "lines", len(lines), "height", height)
			return newTextBlock(face, size, lines, opts.Leading, false), nil
		}
		face.Close()
	}

	face, err := fp.Face(RoleTitle, opts.MinSize)
	if err != nil {
		return nil, err
	}
	lines := Wrap(face, text, wrapWidth)
	Logger().Debug("title overflows at minimum size", "size", opts.MinSize, "lines", len(lines))

	return newTextBlock(face, opts.MinSize, lines, opts.Leading, true), nil
}

// fitFixed lays text out in a face that ignores the requested size. There is
// nothing to search, so the block reports the face's own size.
func fitFixed(fp FontProvider, text string, wrapWidth, maxHeight int, opts FitOptions) (*TextBlock, error) {
	face, err := fp.Face(RoleTitle, opts.MaxSize)
	if err != nil {
		return nil, err
	}
	lines := Wrap(face, text, wrapWidth)
	fits := blockHeight(face, lines, opts.Leading) <= maxHeight && (!opts.StrictWidth || linesFit(face, lines, wrapWidth))
	if !fits {
		Logger().Debug("title overflows in fixed face", "lines", len(lines))
	}
	return newTextBlock(face, faceSize(fp, face, opts.MaxSize), lines, opts.Leading, !fits), nil
}

// blockHeight sums each line's own ink height plus leading.
func blockHeight(face font.Face, lines []string, leading int) int {
	total := 0
	for _, line := range lines {
		_, h := Measure(face, line)
		total += h + leading
	}
	return total
}

func linesFit(face font.Face, lines []string, maxWidth int) bool {
	for _, line := range lines {
		if w, _ := Measure(face, line); w > maxWidth {
			return false
		}
	}
	return true
}

func newTextBlock(face font.Face, size float64, lines []string, leading int, overflow bool) *TextBlock {
	_, h := Measure(face, lineHeightSample)
	return &TextBlock{
		Lines:      lines,
		Face:       face,
		Size:       size,
		LineHeight: h + leading,
		Overflow:   overflow,
	}
}
