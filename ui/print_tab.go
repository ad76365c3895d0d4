package ui

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"mapprint-studio/api"
	"mapprint-studio/core"
	"mapprint-studio/core/geo"
	"mapprint-studio/core/mapview"
	"mapprint-studio/core/printview"
	"mapprint-studio/core/wms"
	"mapprint-studio/internal/dialogs"
)

// PrintTab manages the print tab: page setup controls on the left, a live
// preview of the printed extent on the right. The preview map is a clone of
// the source view, so nothing here disturbs the map tab.
type PrintTab struct {
	controller *core.AppController

	// UI elements
	layoutSelect  *widget.Select
	scaleSelect   *widget.Select
	dpiSelect     *widget.Select
	rotationEntry *widget.Entry
	outputEntry   *widget.Entry
	commentEntry  *widget.Entry
	previewImage  *canvas.Image
	statusLabel   *widget.Label
	submitButton  *widget.Button

	// Print state
	preview *mapview.View
	page    *printview.Page
	rec     *printview.Reconciler
	release func()

	// Select updates driven from page state must not feed back into the
	// page; these flags mute the Select callbacks during programmatic sets.
	suppressLayout bool
	suppressScale  bool

	selectedDPI float64

	// Preview fetch state, touched only on the UI goroutine.
	fetching bool
	pending  bool
}

// CreatePrintTab creates and returns the print tab.
func CreatePrintTab(ac *core.AppController) fyne.CanvasObject {
	tab := &PrintTab{controller: ac}

	tab.previewImage = canvas.NewImageFromImage(nil)
	tab.previewImage.FillMode = canvas.ImageFillContain
	tab.previewImage.SetMinSize(fyne.NewSize(440, 440))

	tab.statusLabel = widget.NewLabel("Loading print capabilities...")
	tab.statusLabel.Wrapping = fyne.TextWrapWord

	tab.layoutSelect = widget.NewSelect(nil, tab.onLayoutSelected)
	tab.layoutSelect.PlaceHolder = "Layout"
	tab.scaleSelect = widget.NewSelect(nil, tab.onScaleSelected)
	tab.scaleSelect.PlaceHolder = "Scale"
	tab.dpiSelect = widget.NewSelect(nil, tab.onDPISelected)
	tab.dpiSelect.PlaceHolder = "DPI"

	tab.rotationEntry = widget.NewEntry()
	tab.rotationEntry.SetText("0")
	tab.rotationEntry.OnChanged = tab.onRotationChanged

	tab.outputEntry = widget.NewEntry()
	tab.outputEntry.SetPlaceHolder("Output file name")
	tab.commentEntry = widget.NewEntry()
	tab.commentEntry.SetPlaceHolder("Comment printed on the page")

	tab.submitButton = widget.NewButton("Print", tab.submit)
	tab.submitButton.Importance = widget.HighImportance
	tab.submitButton.Disable()

	// Capability arrivals (startup auto-load, manual reloads) repopulate the
	// controls. The callback may fire from a background goroutine.
	ac.UpdateCapabilityStatusFunc = func() {
		fyne.Do(tab.reloadCapabilities)
	}
	// The auto-load may already have won the race before this tab existed.
	tab.reloadCapabilities()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Page Setup", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		tab.layoutSelect,
		tab.scaleSelect,
		tab.dpiSelect,
		container.NewBorder(nil, nil, widget.NewLabel("Rotation °"), nil, tab.rotationEntry),
		widget.NewSeparator(),
		tab.outputEntry,
		tab.commentEntry,
		tab.submitButton,
		tab.statusLabel,
	)

	previewPane := container.NewBorder(tab.createPreviewBar(), nil, nil, nil, tab.previewImage)

	split := container.NewHSplit(form, previewPane)
	split.SetOffset(0.35)
	return split
}

// createPreviewBar builds the preview navigation row.
func (tab *PrintTab) createPreviewBar() fyne.CanvasObject {
	zoomIn := widget.NewButton("+", func() { tab.withPreview(func(v *mapview.View) { v.ZoomIn() }) })
	zoomOut := widget.NewButton("−", func() { tab.withPreview(func(v *mapview.View) { v.ZoomOut() }) })
	west := widget.NewButton("←", func() { tab.withPreview(func(v *mapview.View) { v.Pan(-panStepPixels, 0) }) })
	east := widget.NewButton("→", func() { tab.withPreview(func(v *mapview.View) { v.Pan(panStepPixels, 0) }) })
	north := widget.NewButton("↑", func() { tab.withPreview(func(v *mapview.View) { v.Pan(0, panStepPixels) }) })
	south := widget.NewButton("↓", func() { tab.withPreview(func(v *mapview.View) { v.Pan(0, -panStepPixels) }) })

	recenter := widget.NewButton("Center on map", func() {
		tab.withPreview(func(v *mapview.View) {
			src := tab.controller.SourceView
			v.SetCenter(src.Center())
			v.SetZoom(src.Zoom())
		})
	})

	return container.NewHBox(
		zoomOut, zoomIn,
		widget.NewSeparator(),
		west, north, south, east,
		widget.NewSeparator(),
		recenter,
	)
}

// withPreview runs fn against the preview view once it exists.
func (tab *PrintTab) withPreview(fn func(v *mapview.View)) {
	if tab.preview == nil {
		return
	}
	fn(tab.preview)
}

// reloadCapabilities rebuilds the controls from the current print
// capabilities. Call on the UI goroutine.
func (tab *PrintTab) reloadCapabilities() {
	caps := tab.controller.Capabilities.GetCapabilities()
	if caps == nil {
		tab.statusLabel.SetText("Print service unavailable, retrying in the background...")
		tab.submitButton.Disable()
		return
	}

	if tab.rec == nil {
		tab.initPrintState(caps)
	} else {
		tab.rec.SetScales(caps.ScaleList())
	}

	tab.populateSelects(caps)
	tab.submitButton.Enable()
	tab.updateStatus()
	tab.requestPreviewImage()
}

// initPrintState builds the preview clone, the page and the reconciler the
// first time capabilities arrive.
func (tab *PrintTab) initPrintState(caps *api.PrintCapabilities) {
	tab.preview = tab.controller.SourceView.Clone()

	layout := caps.Layouts[0]
	tab.page = printview.NewPage(layout.Name, layout.MapSize())
	tab.rec = printview.NewReconciler(tab.preview, tab.page, caps.ScaleList(), tab.controller.Config.MapUnits())
	tab.release = tab.rec.Bind()

	// The preview canvas mirrors the page's printable area, so what fills
	// the preview is what fills the paper.
	if size := tab.rec.FitPreviewSize(); !size.IsEmpty() {
		tab.preview.SetSize(size)
	}
	tab.rec.SyncPageToView()

	tab.page.OnChange(func() { fyne.Do(tab.onPageChanged) })
	tab.preview.OnChange(func() { fyne.Do(tab.onPreviewChanged) })

	// The clone froze the layer stack; follow visibility toggles made on the
	// map tab so the preview and the submitted job show the same layers.
	tab.controller.SourceView.OnChange(func() { fyne.Do(tab.syncLayersFromSource) })

	log.Printf("printTab: preview ready (layout %q, %d scales)", layout.Name, len(caps.Scales))
}

// syncLayersFromSource copies the source view's layer stack into the preview
// when visibility drifted. Source pans and zooms arrive here too; the
// signature check keeps them from forcing preview refetches.
func (tab *PrintTab) syncLayersFromSource() {
	if tab.preview == nil {
		return
	}
	src := tab.controller.SourceView.Layers()
	cur := tab.preview.Layers()
	if len(src) == len(cur) {
		same := true
		for i := range src {
			if src[i].Visible != cur[i].Visible {
				same = false
				break
			}
		}
		if same {
			return
		}
	}
	layers := make([]*wms.Layer, len(src))
	for i, l := range src {
		layers[i] = l.Clone()
	}
	tab.preview.SetLayers(layers)
}

// populateSelects fills the three Selects from the capabilities without
// feeding the page.
func (tab *PrintTab) populateSelects(caps *api.PrintCapabilities) {
	layouts := make([]string, 0, len(caps.Layouts))
	for _, l := range caps.Layouts {
		layouts = append(layouts, l.Name)
	}
	tab.suppressLayout = true
	tab.layoutSelect.Options = layouts
	tab.layoutSelect.SetSelected(tab.page.LayoutName())
	tab.suppressLayout = false

	scales := make([]string, 0, len(caps.Scales))
	for _, s := range caps.ScaleList() {
		scales = append(scales, scaleLabel(s))
	}
	tab.suppressScale = true
	tab.scaleSelect.Options = scales
	if current := tab.page.Scale(); current.Denominator > 0 {
		tab.scaleSelect.SetSelected(scaleLabel(current))
	}
	tab.suppressScale = false

	dpis := make([]string, 0, len(caps.DPIs))
	for _, d := range caps.DPIValues() {
		dpis = append(dpis, strconv.FormatFloat(d, 'f', -1, 64))
	}
	tab.dpiSelect.Options = dpis
	if tab.selectedDPI == 0 && len(caps.DPIValues()) > 0 {
		tab.dpiSelect.SetSelected(dpis[0])
	}
}

// onLayoutSelected switches the page to another layout and refits the
// preview canvas.
func (tab *PrintTab) onLayoutSelected(name string) {
	if tab.suppressLayout || tab.rec == nil {
		return
	}
	caps := tab.controller.Capabilities.GetCapabilities()
	if caps == nil {
		return
	}
	layout, ok := caps.LayoutByName(name)
	if !ok {
		return
	}

	tab.page.SetLayout(layout.Name, layout.MapSize())
	if size := tab.rec.FitPreviewSize(); !size.IsEmpty() {
		tab.preview.SetSize(size)
	}
	if !layout.Rotation {
		tab.page.SetRotation(0)
		tab.rotationEntry.SetText("0")
		tab.rotationEntry.Disable()
	} else {
		tab.rotationEntry.Enable()
	}
}

// onScaleSelected repins the page to the chosen scale; the reconciler moves
// the preview zoom to match.
func (tab *PrintTab) onScaleSelected(name string) {
	if tab.suppressScale || tab.rec == nil {
		return
	}
	for _, s := range tab.rec.Scales() {
		if scaleLabel(s) == name {
			tab.page.SetScale(s)
			return
		}
	}
}

func (tab *PrintTab) onDPISelected(name string) {
	v, err := strconv.ParseFloat(name, 64)
	if err != nil {
		return
	}
	tab.selectedDPI = v
}

func (tab *PrintTab) onRotationChanged(text string) {
	if tab.page == nil {
		return
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return
	}
	tab.page.SetRotation(v)
}

// onPageChanged mirrors page state back into the controls. Fires on scale
// snaps, recenters and layout switches.
func (tab *PrintTab) onPageChanged() {
	if scale := tab.page.Scale(); scale.Denominator > 0 {
		tab.suppressScale = true
		tab.scaleSelect.SetSelected(scaleLabel(scale))
		tab.suppressScale = false
	}
	tab.updateStatus()
	tab.requestPreviewImage()
}

// onPreviewChanged refetches after preview navigation. The page itself is
// kept in step by the reconciler, which triggers onPageChanged separately.
func (tab *PrintTab) onPreviewChanged() {
	tab.requestPreviewImage()
}

// updateStatus describes the ground area the page covers.
func (tab *PrintTab) updateStatus() {
	if tab.rec == nil || tab.page.Scale().Denominator <= 0 {
		return
	}
	units := tab.controller.Config.MapUnits()
	extent := tab.page.Extent(units)
	width := extent.Max.X() - extent.Min.X()
	height := extent.Max.Y() - extent.Min.Y()
	tab.statusLabel.SetText(fmt.Sprintf("Page covers %s × %s %s at %s",
		humanize.CommafWithDigits(width, 1), humanize.CommafWithDigits(height, 1),
		units, scaleLabel(tab.page.Scale())))
}

// requestPreviewImage fetches the preview map, coalescing bursts the same
// way the map tab does.
func (tab *PrintTab) requestPreviewImage() {
	if tab.preview == nil {
		return
	}
	if tab.fetching {
		tab.pending = true
		return
	}

	url, ok, err := tab.controller.MapRequestURL(tab.preview)
	if err != nil || !ok {
		if err != nil {
			log.Printf("printTab: preview request build failed: %v", err)
		}
		return
	}

	tab.fetching = true
	go func() {
		ctx, cancel := context.WithTimeout(tab.controller.BgCtx, core.NetworkLongTimeout)
		defer cancel()

		img, err := tab.controller.Images.Get(ctx, url)

		fyne.Do(func() {
			tab.fetching = false
			if err != nil {
				log.Printf("printTab: preview fetch failed: %v", err)
			} else {
				tab.previewImage.Image = img
				tab.previewImage.Refresh()
			}
			if tab.pending {
				tab.pending = false
				tab.requestPreviewImage()
			}
		})
	}()
}

// submit sends the current page to the print service.
func (tab *PrintTab) submit() {
	if tab.rec == nil {
		return
	}
	opts := printview.Options{
		DPI:        tab.selectedDPI,
		OutputName: strings.TrimSpace(tab.outputEntry.Text),
		Comment:    strings.TrimSpace(tab.commentEntry.Text),
	}
	if err := tab.rec.Print(tab.controller, opts); err != nil {
		dialogs.ShowError(tab.controller.MainWindow, err)
		return
	}
	dialogs.ShowAutoHideInfo(tab.controller.Application, tab.controller.MainWindow,
		"Print", "Print job submitted, a dialog will open when the document is ready.")
}

// scaleLabel renders a scale for the Select, preferring the service's own
// name.
func scaleLabel(s geo.Scale) string {
	if s.Name != "" {
		return s.Name
	}
	return "1:" + humanize.Commaf(s.Denominator)
}
