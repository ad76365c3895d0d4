package printview

import (
	"math"
	"testing"

	"mapprint-studio/core/geo"
)

// ladderStub satisfies ZoomLadder over a plain descending resolution list.
type ladderStub struct {
	resolutions []float64
}

func (l *ladderStub) ZoomForResolution(res float64) int {
	zoom := 0
	for i, r := range l.resolutions {
		if r < res {
			break
		}
		zoom = i
	}
	return zoom
}

func (l *ladderStub) ResolutionForZoom(zoom int) float64 {
	if zoom < 0 {
		zoom = 0
	}
	if zoom >= len(l.resolutions) {
		zoom = len(l.resolutions) - 1
	}
	return l.resolutions[zoom]
}

func TestSupportedResolutionsSnapsInInputOrder(t *testing.T) {
	ladder := &ladderStub{resolutions: []float64{160, 80, 40, 20}}
	// Inches make the scale math transparent: resolution = denominator / 72.
	scales := []geo.Scale{
		{Name: "1:7200", Denominator: 7200},  // 100 -> snaps to 160
		{Name: "1:3600", Denominator: 3600},  // 50  -> snaps to 80
		{Name: "1:864", Denominator: 864},    // 12  -> snaps to 20
		{Name: "1:6480", Denominator: 6480},   // 90  -> snaps to 160 again
		{Name: "1:11520", Denominator: 11520}, // 160 -> exact ladder entry
	}

	got := SupportedResolutions(scales, geo.Inches, ladder)

	want := []float64{160, 80, 20, 160, 160}
	if len(got) != len(want) {
		t.Fatalf("got %d entries; want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v; want %v", i, got[i], want[i])
		}
	}
}

func TestSelectResolution(t *testing.T) {
	resolutions := []float64{100, 50, 25, 10}
	tests := []struct {
		name     string
		target   float64
		wantRes  float64
		wantIdx  int
	}{
		{"between entries picks the coarser", 60, 100, 0},
		{"coarser than all picks the first", 120, 100, 0},
		{"finer than all picks the last", 5, 10, 3},
		{"exact entry", 50, 50, 1},
		{"just above an entry", 26, 50, 1},
		{"bottom entry exactly", 10, 10, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, idx := SelectResolution(resolutions, tt.target)
			if res != tt.wantRes || idx != tt.wantIdx {
				t.Errorf("SelectResolution(%v) = (%v, %d); want (%v, %d)",
					tt.target, res, idx, tt.wantRes, tt.wantIdx)
			}
		})
	}
}

func TestSelectResolutionDuplicatesTakeLastMatch(t *testing.T) {
	res, idx := SelectResolution([]float64{100, 100, 50}, 100)
	if res != 100 || idx != 1 {
		t.Errorf("got (%v, %d); want (100, 1)", res, idx)
	}
}

func TestSelectResolutionIsMonotonic(t *testing.T) {
	resolutions := []float64{100, 50, 25, 10}

	// A finer target must never select a coarser resolution than a
	// coarser target does.
	prev := -1.0
	for target := 1.0; target <= 150; target += 0.5 {
		got, _ := SelectResolution(resolutions, target)
		if prev >= 0 && got < prev {
			t.Fatalf("selection not monotonic: target %v chose %v after %v", target, got, prev)
		}
		prev = got
	}
}

func TestPreviewSizeForLayoutKeepsAspect(t *testing.T) {
	layout := geo.RectSize{Width: 770, Height: 610}
	firstScale := geo.Scale{Name: "1:7200", Denominator: 7200} // 100 in/px

	tests := []struct {
		name    string
		snapped float64
		want    geo.RectSize
	}{
		{"snap equals print resolution", 100, geo.RectSize{Width: 770, Height: 610}},
		{"coarser snap shrinks the preview", 200, geo.RectSize{Width: 385, Height: 305}},
		{"finer snap grows the preview", 40, geo.RectSize{Width: 1925, Height: 1525}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PreviewSizeForLayout(layout, firstScale, geo.Inches, tt.snapped)
			if got != tt.want {
				t.Fatalf("got %+v; want %+v", got, tt.want)
			}
			gotRatio := float64(got.Width) / float64(got.Height)
			wantRatio := float64(layout.Width) / float64(layout.Height)
			if math.Abs(gotRatio-wantRatio) > 0.01 {
				t.Errorf("aspect ratio %v drifted from layout ratio %v", gotRatio, wantRatio)
			}
		})
	}

	if got := PreviewSizeForLayout(layout, firstScale, geo.Inches, 0); !got.IsEmpty() {
		t.Errorf("zero resolution should give an empty size, got %+v", got)
	}
}
