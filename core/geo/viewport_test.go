package geo

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestViewportExtent(t *testing.T) {
	tests := []struct {
		name string
		vp   Viewport
		want orb.Bound
	}{
		{
			name: "centered box",
			vp: Viewport{
				Center:     orb.Point{100, 200},
				Resolution: 2,
				Size:       RectSize{Width: 100, Height: 50},
			},
			want: orb.Bound{Min: orb.Point{0, 150}, Max: orb.Point{200, 250}},
		},
		{
			name: "sub-unit resolution",
			vp: Viewport{
				Center:     orb.Point{0, 0},
				Resolution: 0.5,
				Size:       RectSize{Width: 8, Height: 4},
			},
			want: orb.Bound{Min: orb.Point{-2, -1}, Max: orb.Point{2, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.vp.Extent()
			if !got.Equal(tt.want) {
				t.Errorf("Extent() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestPixelSpan(t *testing.T) {
	b := orb.Bound{Min: orb.Point{0, 150}, Max: orb.Point{200, 250}}

	got := PixelSpan(b, 2)
	if got.Width != 100 || got.Height != 50 {
		t.Errorf("PixelSpan = %+v; want 100x50", got)
	}

	if got := PixelSpan(b, 0); !got.IsEmpty() {
		t.Errorf("PixelSpan with zero resolution = %+v; want empty", got)
	}

	// Fractional spans round to the nearest pixel.
	frac := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10.6, 10.4}}
	got = PixelSpan(frac, 1)
	if got.Width != 11 || got.Height != 10 {
		t.Errorf("PixelSpan rounding = %+v; want 11x10", got)
	}
}

func TestClipBound(t *testing.T) {
	limit := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 100}}
	tests := []struct {
		name string
		in   orb.Bound
		want orb.Bound
	}{
		{
			name: "fully inside stays unchanged",
			in:   orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{20, 20}},
			want: orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{20, 20}},
		},
		{
			name: "overhang is trimmed",
			in:   orb.Bound{Min: orb.Point{-50, 50}, Max: orb.Point{50, 150}},
			want: orb.Bound{Min: orb.Point{0, 50}, Max: orb.Point{100, 100}},
		},
		{
			name: "covering box collapses to the limit",
			in:   orb.Bound{Min: orb.Point{-1000, -1000}, Max: orb.Point{1000, 1000}},
			want: limit,
		},
		{
			name: "disjoint box degenerates",
			in:   orb.Bound{Min: orb.Point{200, 200}, Max: orb.Point{300, 300}},
			want: orb.Bound{Min: orb.Point{200, 200}, Max: orb.Point{200, 200}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClipBound(tt.in, limit)
			if !got.Equal(tt.want) {
				t.Errorf("ClipBound = %v; want %v", got, tt.want)
			}
		})
	}
}
