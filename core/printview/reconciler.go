package printview

import (
	"fmt"

	"github.com/paulmach/orb"

	"mapprint-studio/core/geo"
)

// PreviewView is the capability table the reconciler needs from a map view.
// mapview.View satisfies it; tests substitute lighter fakes.
type PreviewView interface {
	ZoomLadder
	Zoom() int
	SetZoom(zoom int)
	Resolution() float64
	Center() orb.Point
	OnChange(fn func()) func()
}

// Printer submits a print job built from the page and preview state.
type Printer interface {
	Print(page *Page, view PreviewView, opts Options) error
}

// Options carries the per-job knobs that do not live on the page.
type Options struct {
	DPI        float64
	OutputName string
	Comment    string
}

// Reconciler keeps a print page and its preview map consistent: the page
// scale drives the preview zoom, the preview drives the page center and
// scale back. An updating flag breaks the cycle between the two directions.
//
// The reconciler is not safe for concurrent use. It is built for the UI
// loop, where page and view changes arrive one at a time; its callbacks
// re-enter it synchronously, which is exactly what the flag is for.
type Reconciler struct {
	view      PreviewView
	page      *Page
	units     geo.Unit
	scales    []geo.Scale
	supported []float64
	updating  bool
}

// NewReconciler builds a reconciler for view and page. scales may be empty
// until the print service capabilities arrive; sync operations stay quiet
// until SetScales delivers them.
func NewReconciler(view PreviewView, page *Page, scales []geo.Scale, units geo.Unit) *Reconciler {
	r := &Reconciler{view: view, page: page, units: units}
	r.SetScales(scales)
	return r
}

// SetScales replaces the supported scale list and recomputes the snapped
// resolutions. Call it again whenever fresh capabilities arrive.
func (r *Reconciler) SetScales(scales []geo.Scale) {
	r.scales = append([]geo.Scale(nil), scales...)
	r.supported = SupportedResolutions(r.scales, r.units, r.view)
}

// Scales returns a copy of the current scale list.
func (r *Reconciler) Scales() []geo.Scale {
	return append([]geo.Scale(nil), r.scales...)
}

// Supported returns a copy of the snapped resolution list. Entry i backs
// scale i.
func (r *Reconciler) Supported() []float64 {
	return append([]float64(nil), r.supported...)
}

// Updating reports whether a page-driven zoom sync is in flight.
func (r *Reconciler) Updating() bool {
	return r.updating
}

// ZoomForResolution maps target onto the supported list with the snap rule
// and returns the view zoom of the winning entry. Must not be called before
// scales are known; Sync operations guard that themselves.
func (r *Reconciler) ZoomForResolution(target float64) int {
	selected, _ := SelectResolution(r.supported, target)
	return r.view.ZoomForResolution(selected)
}

// FitPreviewSize returns the preview canvas size matching the page's
// printable area, derived from the first supported scale. Zero until scales
// are known.
func (r *Reconciler) FitPreviewSize() geo.RectSize {
	if len(r.supported) == 0 {
		return geo.RectSize{}
	}
	return PreviewSizeForLayout(r.page.LayoutSize(), r.scales[0], r.units, r.supported[0])
}

// SyncZoomToPage drives the preview zoom from the page scale. The updating
// flag is held for the whole call so the reciprocal listener stays quiet,
// whether or not the zoom actually moves.
func (r *Reconciler) SyncZoomToPage() {
	if len(r.supported) == 0 {
		return
	}
	r.updating = true
	defer func() { r.updating = false }()

	target := r.page.Scale().Resolution(r.units)
	zoom := r.ZoomForResolution(target)
	if zoom != r.view.Zoom() {
		r.view.SetZoom(zoom)
	}
}

// SyncPageToView drives the page from the preview: the center follows
// directly, the scale snaps to the entry backing the current resolution.
// Quiet while a zoom sync is in flight or before scales are known.
func (r *Reconciler) SyncPageToView() {
	if r.updating || len(r.supported) == 0 {
		return
	}
	r.page.SetCenter(r.view.Center())
	_, idx := SelectResolution(r.supported, r.view.Resolution())
	r.page.SetScale(r.scales[idx])
}

// Bind subscribes the two sync directions to their feeds and returns a
// release function that detaches both.
func (r *Reconciler) Bind() func() {
	releasePage := r.page.OnChange(r.SyncZoomToPage)
	releaseView := r.view.OnChange(r.SyncPageToView)
	return func() {
		releasePage()
		releaseView()
	}
}

// Print forwards the current page and preview to a submission backend.
func (r *Reconciler) Print(p Printer, opts Options) error {
	if p == nil {
		return fmt.Errorf("printview: no printer wired")
	}
	return p.Print(r.page, r.view, opts)
}
