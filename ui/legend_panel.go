package ui

import (
	"context"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mapprint-studio/core"
	"mapprint-studio/core/legend"
	"mapprint-studio/core/wms"
)

// legendEntry is what panel items render as.
type legendEntry interface {
	CanvasObject() fyne.CanvasObject
}

// legendTitleItem heads a layer's block in the panel.
type legendTitleItem struct {
	label *widget.Label
}

func newLegendTitleItem(title string) *legendTitleItem {
	label := widget.NewLabel(title)
	label.TextStyle = fyne.TextStyle{Bold: true}
	return &legendTitleItem{label: label}
}

func (t *legendTitleItem) CanvasObject() fyne.CanvasObject {
	return t.label
}

// legendImageItem shows one legend graphic and refetches whenever its URL is
// repointed.
type legendImageItem struct {
	controller *core.AppController
	url        string
	img        *canvas.Image
}

func newLegendImageItem(ac *core.AppController, url string) *legendImageItem {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillOriginal
	item := &legendImageItem{controller: ac, img: img}
	item.SetLegendURL(url)
	return item
}

func (li *legendImageItem) LegendURL() string {
	return li.url
}

// SetLegendURL repoints the item and fetches the new graphic. Unchanged URLs
// are left alone so reconciling is cheap.
func (li *legendImageItem) SetLegendURL(url string) {
	if url == li.url {
		return
	}
	li.url = url
	li.fetch(url)
}

func (li *legendImageItem) CanvasObject() fyne.CanvasObject {
	return li.img
}

func (li *legendImageItem) fetch(url string) {
	go func() {
		ctx, cancel := context.WithTimeout(li.controller.BgCtx, core.NetworkLongTimeout)
		defer cancel()

		img, err := li.controller.Images.Get(ctx, url)
		if err != nil {
			log.Printf("legendPanel: legend fetch failed: %v", err)
			return
		}
		fyne.Do(func() {
			// A newer URL may have been set while this fetch ran.
			if li.url != url {
				return
			}
			bounds := img.Bounds()
			li.img.Image = img
			li.img.SetMinSize(fyne.NewSize(float32(bounds.Dx()), float32(bounds.Dy())))
			li.img.Refresh()
		})
	}()
}

// isTitleItem is the reconciler predicate for panel blocks.
func isTitleItem(it legend.Item) bool {
	_, ok := it.(*legendTitleItem)
	return ok
}

// LegendPanel renders one block per visible layer: a bold title and the
// layer's legend graphic, kept current against the map view. Items survive
// visibility toggles, so showing a layer again reuses its fetched graphic.
type LegendPanel struct {
	controller *core.AppController
	box        *fyne.Container
	items      map[*wms.Layer][]legend.Item
}

// NewLegendPanel builds the panel and renders the initial layer stack.
func NewLegendPanel(ac *core.AppController) *LegendPanel {
	p := &LegendPanel{
		controller: ac,
		box:        container.NewVBox(),
		items:      make(map[*wms.Layer][]legend.Item),
	}
	p.Rebuild()
	return p
}

// Container returns the panel's root object for embedding.
func (p *LegendPanel) Container() fyne.CanvasObject {
	return container.NewVScroll(p.box)
}

// Rebuild reconciles every layer's block against the current view state and
// re-renders the panel. Call on the UI goroutine.
func (p *LegendPanel) Rebuild() {
	p.box.Objects = nil

	for _, l := range p.controller.SourceView.Layers() {
		if !l.InLegend || !l.Visible {
			continue
		}
		url, ok := p.controller.LegendURLForLayer(l)
		if !ok {
			continue
		}

		items := p.items[l]
		if items == nil {
			items = []legend.Item{newLegendTitleItem(l.Title)}
		}
		items = legend.Reconcile(items, isTitleItem, url, func(u string) legend.ImageItem {
			return newLegendImageItem(p.controller, u)
		})
		p.items[l] = items

		for _, it := range items {
			if entry, ok := it.(legendEntry); ok {
				p.box.Add(entry.CanvasObject())
			}
		}
	}

	p.box.Refresh()
}
