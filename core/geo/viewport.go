package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// RectSize is a width/height pair in pixels.
type RectSize struct {
	Width  int
	Height int
}

// IsEmpty reports whether either side is zero or negative.
func (r RectSize) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Viewport is an immutable snapshot of a live map view: where it looks,
// how fine it looks, and how large its canvas is.
type Viewport struct {
	Center     orb.Point
	Resolution float64
	Size       RectSize
}

// Extent returns the ground bounding box covered by the viewport.
func (v Viewport) Extent() orb.Bound {
	halfW := v.Resolution * float64(v.Size.Width) / 2
	halfH := v.Resolution * float64(v.Size.Height) / 2
	return orb.Bound{
		Min: orb.Point{v.Center.X() - halfW, v.Center.Y() - halfH},
		Max: orb.Point{v.Center.X() + halfW, v.Center.Y() + halfH},
	}
}

// PixelSpan returns the pixel rectangle b occupies at the given resolution.
func PixelSpan(b orb.Bound, resolution float64) RectSize {
	if resolution <= 0 {
		return RectSize{}
	}
	return RectSize{
		Width:  int(math.Round((b.Max.X() - b.Min.X()) / resolution)),
		Height: int(math.Round((b.Max.Y() - b.Min.Y()) / resolution)),
	}
}

// ClipBound returns the part of b that lies inside limit. When the two do
// not overlap the result collapses to a degenerate box on b's near corner.
func ClipBound(b, limit orb.Bound) orb.Bound {
	minX := math.Max(b.Min.X(), limit.Min.X())
	minY := math.Max(b.Min.Y(), limit.Min.Y())
	maxX := math.Min(b.Max.X(), limit.Max.X())
	maxY := math.Min(b.Max.Y(), limit.Max.Y())
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
}
