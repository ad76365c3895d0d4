package ui

import (
	"context"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mapprint-studio/core"
	"mapprint-studio/core/mapview"
)

// panStepPixels is how far one arrow button shifts the map.
const panStepPixels = 128

// MapTab manages the map view tab: the rendered map, navigation buttons,
// layer toggles and the legend panel.
type MapTab struct {
	controller *core.AppController
	view       *mapview.View

	// UI elements
	mapImage    *canvas.Image
	banner      *ErrorBanner
	statusLabel *widget.Label
	layerChecks []*widget.Check
	legend      *LegendPanel

	// Fetch state, touched only on the UI goroutine. A running fetch
	// coalesces follow-up requests into one trailing refetch.
	fetching bool
	pending  bool
}

// CreateMapTab creates and returns the map view tab.
func CreateMapTab(ac *core.AppController) fyne.CanvasObject {
	tab := &MapTab{
		controller: ac,
		view:       ac.SourceView,
	}

	tab.mapImage = canvas.NewImageFromImage(nil)
	tab.mapImage.FillMode = canvas.ImageFillContain
	tab.mapImage.SetMinSize(fyne.NewSize(640, 480))

	tab.banner = NewErrorBanner(func() {
		tab.banner.Hide()
		tab.refresh()
	})

	tab.statusLabel = widget.NewLabel("")
	tab.statusLabel.Wrapping = fyne.TextWrapOff

	navBar := tab.createNavBar()
	sidePanel := tab.createSidePanel()

	// The view notifies on zoom, pan, resize and layer toggles; every change
	// means a new map image and possibly new legend graphics.
	ac.SourceView.OnChange(func() {
		fyne.Do(tab.refresh)
	})
	ac.UpdateLegendFunc = func() {
		fyne.Do(tab.legend.Rebuild)
	}
	ac.RefreshMapFunc = func() {
		fyne.Do(tab.refresh)
	}

	tab.refresh()

	center := container.NewBorder(tab.banner.GetContainer(), nil, nil, nil, tab.mapImage)
	return container.NewBorder(navBar, tab.statusLabel, nil, sidePanel, center)
}

// createNavBar builds the zoom and pan button row.
func (tab *MapTab) createNavBar() fyne.CanvasObject {
	zoomIn := widget.NewButton("+", tab.view.ZoomIn)
	zoomOut := widget.NewButton("−", tab.view.ZoomOut)

	west := widget.NewButton("←", func() { tab.view.Pan(-panStepPixels, 0) })
	east := widget.NewButton("→", func() { tab.view.Pan(panStepPixels, 0) })
	north := widget.NewButton("↑", func() { tab.view.Pan(0, panStepPixels) })
	south := widget.NewButton("↓", func() { tab.view.Pan(0, -panStepPixels) })

	return container.NewHBox(
		zoomOut, zoomIn,
		widget.NewSeparator(),
		west, north, south, east,
	)
}

// createSidePanel builds the layer toggle list and the legend panel.
func (tab *MapTab) createSidePanel() fyne.CanvasObject {
	layersBox := container.NewVBox(widget.NewLabelWithStyle("Layers", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))

	for i, l := range tab.view.Layers() {
		index := i
		check := widget.NewCheck(l.Title, nil)
		check.Checked = l.Visible
		check.OnChanged = func(checked bool) {
			tab.view.SetLayerVisible(index, checked)
		}
		tab.layerChecks = append(tab.layerChecks, check)
		layersBox.Add(check)
	}

	tab.legend = NewLegendPanel(tab.controller)

	legendBox := container.NewBorder(
		widget.NewLabelWithStyle("Legend", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		tab.legend.Container(),
	)

	split := container.NewVSplit(layersBox, legendBox)
	split.SetOffset(0.3)
	return split
}

// refresh updates the status line, the rendered map and the legend panel.
// Call on the UI goroutine.
func (tab *MapTab) refresh() {
	tab.updateStatusLabel()
	tab.requestMapImage()
	tab.legend.Rebuild()
}

func (tab *MapTab) updateStatusLabel() {
	center := tab.view.Center()
	tab.statusLabel.SetText(fmt.Sprintf("Center: %.1f, %.1f    Zoom: %d    Resolution: %.4g %s/px",
		center.X(), center.Y(), tab.view.Zoom(), tab.view.Resolution(), tab.view.Units()))
}

// requestMapImage fetches the map for the current viewport. A fetch already
// in flight marks the request pending; the trailing refetch picks up the
// newest state.
func (tab *MapTab) requestMapImage() {
	if tab.fetching {
		tab.pending = true
		return
	}

	url, ok, err := tab.controller.MapRequestURL(tab.view)
	if err != nil {
		tab.showMapError(err)
		return
	}
	if !ok {
		tab.mapImage.Image = nil
		tab.mapImage.Refresh()
		tab.banner.SetMessage("All layers are hidden")
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
				log.Printf("mapTab: map fetch failed: %v", err)
				tab.showMapError(err)
			} else {
				tab.banner.Hide()
				tab.mapImage.Image = img
				tab.mapImage.Refresh()
			}
			if tab.pending {
				tab.pending = false
				tab.requestMapImage()
			}
		})
	}()
}

func (tab *MapTab) showMapError(err error) {
	message := err.Error()
	if core.IsNetworkError(err) {
		message = core.GetNetworkErrorMessage(err)
	}
	tab.banner.SetMessage(message)
}
