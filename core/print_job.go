package core

import (
	"context"
	"fmt"
	"log"

	"mapprint-studio/api"
	"mapprint-studio/core/config"
	"mapprint-studio/core/printview"
	"mapprint-studio/core/wms"
	"mapprint-studio/internal/dialogs"
)

// Print implements printview.Printer. The job document is built from the
// page placement and the source map's visible layers; the preview view is a
// viewing aid and contributes nothing beyond what the page already mirrors.
// Submission runs in the background, one job at a time.
func (ac *AppController) Print(page *printview.Page, _ printview.PreviewView, opts printview.Options) error {
	caps := ac.Capabilities.GetCapabilities()
	if caps == nil {
		return fmt.Errorf("print service capabilities are not loaded yet")
	}

	spec, err := BuildPrintSpec(ac.Config, caps, ac.SourceView.Layers(), page, opts)
	if err != nil {
		return err
	}

	ac.SubmitMutex.Lock()
	if ac.SubmitRunning {
		ac.SubmitMutex.Unlock()
		return fmt.Errorf("a print job is already being submitted")
	}
	ac.SubmitRunning = true
	ac.SubmitMutex.Unlock()

	log.Printf("Print: submitting job (layout %q, scale 1:%v, %d layers)",
		spec.Layout, spec.Pages[0].Scale, len(spec.Layers))
	go ac.submitJob(caps.CreateURL, spec)
	return nil
}

// submitJob POSTs the spec and reports the outcome with a dialog. Runs off
// the UI goroutine; the dialog helpers marshal themselves back onto it.
func (ac *AppController) submitJob(createURL string, spec *api.PrintSpec) {
	defer func() {
		ac.SubmitMutex.Lock()
		ac.SubmitRunning = false
		ac.SubmitMutex.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ac.BgCtx, submitTimeout)
	defer cancel()

	getURL, err := ac.PrintClient.Submit(ctx, createURL, spec)
	if err != nil {
		log.Printf("submitJob: %v", err)
		if IsNetworkError(err) {
			dialogs.ShowErrorText(ac.MainWindow, "Print Failed", GetNetworkErrorMessage(err))
		} else {
			ac.ShowPrintError(err)
		}
		return
	}

	log.Printf("submitJob: document ready at %s", getURL)
	dialogs.ShowOpenURLInfo(ac.MainWindow, "Print Job Ready",
		"The print service has rendered your document.", getURL)
}

// BuildPrintSpec assembles the job document for the print service: the page
// supplies placement, the layer stack supplies imagery sources, opts the
// per-job knobs. Kept free of controller state.
func BuildPrintSpec(cfg *config.Config, caps *api.PrintCapabilities, layers []*wms.Layer, page *printview.Page, opts printview.Options) (*api.PrintSpec, error) {
	layoutName := page.LayoutName()
	if _, ok := caps.LayoutByName(layoutName); !ok {
		return nil, fmt.Errorf("print: service knows no layout %q", layoutName)
	}

	dpi := opts.DPI
	if dpi <= 0 {
		dpis := caps.DPIValues()
		if len(dpis) == 0 {
			return nil, fmt.Errorf("print: no dpi requested and the service lists none")
		}
		dpi = dpis[0]
	}

	specLayers := make([]api.SpecLayer, 0, len(layers))
	for _, l := range layers {
		if l == nil || !l.Visible {
			continue
		}
		sl := api.SpecLayer{
			Type:    "WMS",
			BaseURL: cfg.WMS.URL,
			Layers:  append([]string(nil), l.Names...),
			Format:  l.EffectiveFormat(),
			Version: l.EffectiveVersion(),
			Opacity: l.Opacity,
		}
		if styles := paddedStyles(l); styles != nil {
			sl.Styles = styles
		}
		if l.Transparent {
			sl.CustomParams = map[string]string{"TRANSPARENT": "true"}
		}
		specLayers = append(specLayers, sl)
	}
	if len(specLayers) == 0 {
		return nil, fmt.Errorf("print: every layer is hidden, nothing to print")
	}

	scale := page.Scale()
	if scale.Denominator <= 0 {
		return nil, fmt.Errorf("print: page has no scale yet")
	}
	center := page.Center()

	return &api.PrintSpec{
		Units:          cfg.Map.Units,
		SRS:            cfg.Map.SRS,
		Layout:         layoutName,
		DPI:            dpi,
		OutputFilename: opts.OutputName,
		Layers:         specLayers,
		Pages: []api.SpecPage{{
			Center:   []float64{center.X(), center.Y()},
			Scale:    scale.Denominator,
			Rotation: page.Rotation(),
			Comment:  opts.Comment,
		}},
	}, nil
}

// paddedStyles aligns a layer's styles with its names, empty strings meaning
// server default. Nil when the layer sets no style at all, so the field is
// omitted from the document.
func paddedStyles(l *wms.Layer) []string {
	if len(l.Styles) == 0 {
		return nil
	}
	out := make([]string, len(l.Names))
	copy(out, l.Styles)
	return out
}
