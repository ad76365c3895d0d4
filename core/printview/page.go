package printview

import (
	"sort"
	"sync"

	"github.com/paulmach/orb"

	"mapprint-studio/core/geo"
)

// Page models one print page: the layout it uses, where its map block sits
// on the ground, at which scale, and how it is rotated. Every change
// notifies listeners synchronously after the lock is released, so listeners
// may read the page back.
type Page struct {
	mu         sync.Mutex
	layoutName string
	layoutSize geo.RectSize
	scale      geo.Scale
	center     orb.Point
	rotation   float64
	subs       map[int]func()
	nextSubID  int
}

// NewPage builds a page for a layout whose map block measures layoutSize
// print pixels.
func NewPage(layoutName string, layoutSize geo.RectSize) *Page {
	return &Page{
		layoutName: layoutName,
		layoutSize: layoutSize,
		subs:       make(map[int]func()),
	}
}

func (p *Page) LayoutName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.layoutName
}

func (p *Page) LayoutSize() geo.RectSize {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.layoutSize
}

// SetLayout switches the page to another layout.
func (p *Page) SetLayout(name string, size geo.RectSize) {
	p.mu.Lock()
	if p.layoutName == name && p.layoutSize == size {
		p.mu.Unlock()
		return
	}
	p.layoutName = name
	p.layoutSize = size
	fns := p.listenersLocked()
	p.mu.Unlock()
	runAll(fns)
}

func (p *Page) Scale() geo.Scale {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scale
}

// SetScale repins the page to a scale. Listeners fire only on change.
func (p *Page) SetScale(s geo.Scale) {
	p.mu.Lock()
	if p.scale == s {
		p.mu.Unlock()
		return
	}
	p.scale = s
	fns := p.listenersLocked()
	p.mu.Unlock()
	runAll(fns)
}

func (p *Page) Center() orb.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.center
}

// SetCenter moves the page's map block on the ground.
func (p *Page) SetCenter(c orb.Point) {
	p.mu.Lock()
	if p.center.Equal(c) {
		p.mu.Unlock()
		return
	}
	p.center = c
	fns := p.listenersLocked()
	p.mu.Unlock()
	runAll(fns)
}

func (p *Page) Rotation() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rotation
}

// SetRotation sets the page rotation in degrees.
func (p *Page) SetRotation(deg float64) {
	p.mu.Lock()
	if p.rotation == deg {
		p.mu.Unlock()
		return
	}
	p.rotation = deg
	fns := p.listenersLocked()
	p.mu.Unlock()
	runAll(fns)
}

// Extent returns the unrotated ground box the page's map block covers at
// its current scale and center.
func (p *Page) Extent(units geo.Unit) orb.Bound {
	p.mu.Lock()
	defer p.mu.Unlock()
	res := p.scale.Resolution(units)
	halfW := res * float64(p.layoutSize.Width) / 2
	halfH := res * float64(p.layoutSize.Height) / 2
	return orb.Bound{
		Min: orb.Point{p.center.X() - halfW, p.center.Y() - halfH},
		Max: orb.Point{p.center.X() + halfW, p.center.Y() + halfH},
	}
}

// OnChange registers a listener for any page change and returns a disposer.
func (p *Page) OnChange(fn func()) func() {
	p.mu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subs[id] = fn
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *Page) listenersLocked() []func() {
	if len(p.subs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(p.subs))
	for id := range p.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, p.subs[id])
	}
	return fns
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
