package printview

import (
	"math"

	"mapprint-studio/core/geo"
)

// ZoomLadder is the slice of a map view the snapping math needs.
type ZoomLadder interface {
	ZoomForResolution(res float64) int
	ResolutionForZoom(zoom int) float64
}

// SupportedResolutions converts print-service scales to view resolutions:
// one entry per scale, in input order, each snapped onto the view's ladder
// by a zoom round trip. Duplicates are kept so indexes keep lining up with
// the scale list.
func SupportedResolutions(scales []geo.Scale, units geo.Unit, ladder ZoomLadder) []float64 {
	out := make([]float64, 0, len(scales))
	for _, s := range scales {
		res := s.Resolution(units)
		out = append(out, ladder.ResolutionForZoom(ladder.ZoomForResolution(res)))
	}
	return out
}

// SelectResolution picks the entry the snap rule assigns to target: the
// last entry not finer than target. A target coarser than the whole list
// takes the first entry, one finer than the whole list takes the last.
// The second result is the winning position. The list must be non-empty.
func SelectResolution(resolutions []float64, target float64) (float64, int) {
	idx := 0
	for i, r := range resolutions {
		if r < target {
			break
		}
		idx = i
	}
	return resolutions[idx], idx
}

// PreviewSizeForLayout returns the preview canvas size whose ground
// footprint at snappedResolution matches the layout's map block printed at
// firstScale. Width and height share one factor, so the result keeps the
// layout's aspect ratio.
func PreviewSizeForLayout(layoutSize geo.RectSize, firstScale geo.Scale, units geo.Unit, snappedResolution float64) geo.RectSize {
	if snappedResolution <= 0 {
		return geo.RectSize{}
	}
	factor := firstScale.Resolution(units) / snappedResolution
	return geo.RectSize{
		Width:  int(math.Round(float64(layoutSize.Width) * factor)),
		Height: int(math.Round(float64(layoutSize.Height) * factor)),
	}
}
