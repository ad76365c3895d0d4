package mapview

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/paulmach/orb"

	"mapprint-studio/core/geo"
	"mapprint-studio/core/wms"
)

// View models a map panel's state: a fixed resolution ladder, a discrete
// zoom position on it, a center, a canvas size and the layer stack drawn on
// it. Methods are safe for concurrent use. Change listeners run
// synchronously on the mutating goroutine, after the lock is released, so a
// listener may call back into the view.
type View struct {
	mu          sync.Mutex
	srs         string
	units       geo.Unit
	resolutions []float64
	layers      []*wms.Layer
	center      orb.Point
	zoom        int
	size        geo.RectSize
	subs        map[int]func()
	nextSubID   int
}

// New builds a view over the given resolution ladder. The ladder must be
// non-empty with strictly positive entries; conventionally it runs coarsest
// to finest so that zooming in means walking forward through it.
func New(srs string, units geo.Unit, resolutions []float64, center orb.Point, size geo.RectSize) (*View, error) {
	if len(resolutions) == 0 {
		return nil, fmt.Errorf("mapview: resolution ladder is empty")
	}
	for i, r := range resolutions {
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("mapview: resolution %d is %v, must be a positive number", i, r)
		}
	}
	return &View{
		srs:         srs,
		units:       units,
		resolutions: append([]float64(nil), resolutions...),
		center:      center,
		size:        size,
		subs:        make(map[int]func()),
	}, nil
}

// DefaultResolutions returns the familiar web mercator ladder: the whole
// world in one tile, halving twenty times down to street level.
func DefaultResolutions() []float64 {
	out := make([]float64, 20)
	r := 156543.03392804097
	for i := range out {
		out[i] = r
		r /= 2
	}
	return out
}

func (v *View) SRS() string {
	return v.srs
}

func (v *View) Units() geo.Unit {
	return v.units
}

// Resolutions returns a copy of the ladder.
func (v *View) Resolutions() []float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]float64(nil), v.resolutions...)
}

// NumZoomLevels returns the ladder length.
func (v *View) NumZoomLevels() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.resolutions)
}

// Zoom returns the current position on the ladder.
func (v *View) Zoom() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

// Resolution returns the ground units per pixel at the current zoom.
func (v *View) Resolution() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.resolutions[v.zoom]
}

// ResolutionForZoom returns the ladder entry at z, clamping z to the
// ladder's ends.
func (v *View) ResolutionForZoom(z int) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.resolutions[v.clampZoom(z)]
}

// ZoomForResolution returns the position of the last ladder entry that is
// not finer than res. Resolutions coarser than the whole ladder map to the
// first entry, finer than the whole ladder to the last.
func (v *View) ZoomForResolution(res float64) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	zoom := 0
	for i, r := range v.resolutions {
		if r < res {
			break
		}
		zoom = i
	}
	return zoom
}

// Center returns the current ground center.
func (v *View) Center() orb.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.center
}

// SetCenter recenters the view. Listeners fire only on actual movement.
func (v *View) SetCenter(p orb.Point) {
	v.mu.Lock()
	if v.center.Equal(p) {
		v.mu.Unlock()
		return
	}
	v.center = p
	fns := v.listenersLocked()
	v.mu.Unlock()
	runAll(fns)
}

// SetZoom moves to position z on the ladder, clamped to its ends.
// Listeners fire only when the position actually changes.
func (v *View) SetZoom(z int) {
	v.mu.Lock()
	z = v.clampZoom(z)
	if z == v.zoom {
		v.mu.Unlock()
		return
	}
	v.zoom = z
	fns := v.listenersLocked()
	v.mu.Unlock()
	runAll(fns)
}

// ZoomIn steps one ladder position finer.
func (v *View) ZoomIn() {
	v.SetZoom(v.Zoom() + 1)
}

// ZoomOut steps one ladder position coarser.
func (v *View) ZoomOut() {
	v.SetZoom(v.Zoom() - 1)
}

// Pan shifts the center by a pixel delta at the current resolution. dx
// moves east, dy moves north.
func (v *View) Pan(dx, dy int) {
	v.mu.Lock()
	res := v.resolutions[v.zoom]
	p := orb.Point{v.center.X() + float64(dx)*res, v.center.Y() + float64(dy)*res}
	v.mu.Unlock()
	v.SetCenter(p)
}

// Size returns the canvas size in pixels.
func (v *View) Size() geo.RectSize {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.size
}

// SetSize resizes the canvas.
func (v *View) SetSize(s geo.RectSize) {
	v.mu.Lock()
	if v.size == s {
		v.mu.Unlock()
		return
	}
	v.size = s
	fns := v.listenersLocked()
	v.mu.Unlock()
	runAll(fns)
}

// Viewport returns an immutable snapshot of the view for request builders.
func (v *View) Viewport() *geo.Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return &geo.Viewport{
		Center:     v.center,
		Resolution: v.resolutions[v.zoom],
		Size:       v.size,
	}
}

// Extent returns the ground bounding box currently covered.
func (v *View) Extent() orb.Bound {
	return v.Viewport().Extent()
}

// Layers returns the layer stack. The slice is a copy; the layers are
// shared.
func (v *View) Layers() []*wms.Layer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]*wms.Layer(nil), v.layers...)
}

// SetLayers replaces the layer stack.
func (v *View) SetLayers(layers []*wms.Layer) {
	v.mu.Lock()
	v.layers = append([]*wms.Layer(nil), layers...)
	fns := v.listenersLocked()
	v.mu.Unlock()
	runAll(fns)
}

// SetLayerVisible toggles one layer by stack position.
func (v *View) SetLayerVisible(index int, visible bool) {
	v.mu.Lock()
	if index < 0 || index >= len(v.layers) || v.layers[index].Visible == visible {
		v.mu.Unlock()
		return
	}
	v.layers[index].Visible = visible
	fns := v.listenersLocked()
	v.mu.Unlock()
	runAll(fns)
}

// OnChange registers a listener for any view change and returns a function
// that removes it. Disposal is idempotent.
func (v *View) OnChange(fn func()) func() {
	v.mu.Lock()
	id := v.nextSubID
	v.nextSubID++
	v.subs[id] = fn
	v.mu.Unlock()
	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// Clone returns an independent view with the same ladder, position and a
// deep copy of the layer stack. Listeners do not carry over. Print previews
// work on clones so they never disturb the source map.
func (v *View) Clone() *View {
	v.mu.Lock()
	defer v.mu.Unlock()
	layers := make([]*wms.Layer, len(v.layers))
	for i, l := range v.layers {
		layers[i] = l.Clone()
	}
	return &View{
		srs:         v.srs,
		units:       v.units,
		resolutions: append([]float64(nil), v.resolutions...),
		layers:      layers,
		center:      v.center,
		zoom:        v.zoom,
		size:        v.size,
		subs:        make(map[int]func()),
	}
}

func (v *View) clampZoom(z int) int {
	if z < 0 {
		return 0
	}
	if z >= len(v.resolutions) {
		return len(v.resolutions) - 1
	}
	return z
}

// listenersLocked snapshots the subscriber set in registration order.
// Callers must hold the lock and invoke the result after releasing it.
func (v *View) listenersLocked() []func() {
	if len(v.subs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(v.subs))
	for id := range v.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, v.subs[id])
	}
	return fns
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
