package core

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"mapprint-studio/api"
	"mapprint-studio/core/config"
	"mapprint-studio/core/geo"
	"mapprint-studio/core/printview"
	"mapprint-studio/core/wms"
)

func specFixtures() (*config.Config, *api.PrintCapabilities, []*wms.Layer, *printview.Page) {
	cfg := &config.Config{
		WMS: config.WMSConfig{
			URL:    "https://maps.example/wms",
			Layers: []config.LayerConfig{{Names: []string{"base"}}},
		},
		Print: config.PrintConfig{CapabilitiesURL: "http://print.example/pdf/info.json"},
		Map:   config.MapConfig{SRS: "EPSG:3857", Units: "m", Center: []float64{0, 0}},
	}
	cfg.ApplyDefaults()

	caps := &api.PrintCapabilities{
		Scales:    []api.NamedValue{{Name: "1:25000", Value: 25000}},
		DPIs:      []api.NamedValue{{Name: "150", Value: 150}, {Name: "300", Value: 300}},
		Layouts:   []api.Layout{{Name: "A4 portrait", Map: api.LayoutMap{Width: 440, Height: 483}}},
		CreateURL: "http://print.example/pdf/create.json",
	}

	layers := []*wms.Layer{
		{
			Title:       "Base",
			Names:       []string{"base"},
			SRS:         "EPSG:3857",
			Opacity:     1,
			Visible:     true,
			Transparent: false,
		},
		{
			Title:       "Roads",
			Names:       []string{"roads", "bridges"},
			Styles:      []string{"bold"},
			SRS:         "EPSG:3857",
			Opacity:     0.8,
			Visible:     true,
			Transparent: true,
		},
		{
			Title:   "Hidden",
			Names:   []string{"secret"},
			SRS:     "EPSG:3857",
			Opacity: 1,
			Visible: false,
		},
	}

	page := printview.NewPage("A4 portrait", geo.RectSize{Width: 440, Height: 483})
	page.SetScale(geo.Scale{Name: "1:25000", Denominator: 25000})
	page.SetCenter(orb.Point{1500000, 7500000})
	page.SetRotation(15)

	return cfg, caps, layers, page
}

func TestBuildPrintSpec(t *testing.T) {
	cfg, caps, layers, page := specFixtures()

	spec, err := BuildPrintSpec(cfg, caps, layers, page, printview.Options{
		OutputName: "site-plan",
		Comment:    "north entrance",
	})
	if err != nil {
		t.Fatalf("BuildPrintSpec: %v", err)
	}

	if spec.Units != "m" || spec.SRS != "EPSG:3857" || spec.Layout != "A4 portrait" {
		t.Errorf("header fields: units=%q srs=%q layout=%q", spec.Units, spec.SRS, spec.Layout)
	}
	if spec.DPI != 150 {
		t.Errorf("default dpi = %v, want first offered (150)", spec.DPI)
	}
	if spec.OutputFilename != "site-plan" {
		t.Errorf("output filename = %q", spec.OutputFilename)
	}

	if len(spec.Layers) != 2 {
		t.Fatalf("got %d layers, want visible 2", len(spec.Layers))
	}
	base := spec.Layers[0]
	if base.Type != "WMS" || base.BaseURL != "https://maps.example/wms" {
		t.Errorf("base layer: %+v", base)
	}
	if base.CustomParams != nil {
		t.Errorf("opaque layer got customParams %v", base.CustomParams)
	}
	roads := spec.Layers[1]
	if len(roads.Styles) != 2 || roads.Styles[0] != "bold" || roads.Styles[1] != "" {
		t.Errorf("styles not padded: %v", roads.Styles)
	}
	if roads.CustomParams["TRANSPARENT"] != "true" {
		t.Errorf("transparent layer customParams = %v", roads.CustomParams)
	}
	if roads.Opacity != 0.8 {
		t.Errorf("opacity = %v", roads.Opacity)
	}

	if len(spec.Pages) != 1 {
		t.Fatalf("got %d pages", len(spec.Pages))
	}
	pg := spec.Pages[0]
	if pg.Center[0] != 1500000 || pg.Center[1] != 7500000 {
		t.Errorf("center = %v", pg.Center)
	}
	if pg.Scale != 25000 || pg.Rotation != 15 {
		t.Errorf("scale=%v rotation=%v", pg.Scale, pg.Rotation)
	}
	if pg.Comment != "north entrance" {
		t.Errorf("comment = %q", pg.Comment)
	}
}

func TestBuildPrintSpecDPIOverride(t *testing.T) {
	cfg, caps, layers, page := specFixtures()

	spec, err := BuildPrintSpec(cfg, caps, layers, page, printview.Options{DPI: 300})
	if err != nil {
		t.Fatalf("BuildPrintSpec: %v", err)
	}
	if spec.DPI != 300 {
		t.Errorf("dpi = %v, want 300", spec.DPI)
	}
}

func TestBuildPrintSpecRejections(t *testing.T) {
	t.Run("unknown layout", func(t *testing.T) {
		cfg, caps, layers, _ := specFixtures()
		page := printview.NewPage("A0 landscape", geo.RectSize{Width: 1000, Height: 700})
		page.SetScale(geo.Scale{Denominator: 25000})

		_, err := BuildPrintSpec(cfg, caps, layers, page, printview.Options{})
		if err == nil || !strings.Contains(err.Error(), "layout") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("all layers hidden", func(t *testing.T) {
		cfg, caps, layers, page := specFixtures()
		for _, l := range layers {
			l.Visible = false
		}
		_, err := BuildPrintSpec(cfg, caps, layers, page, printview.Options{})
		if err == nil || !strings.Contains(err.Error(), "nothing to print") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("page without scale", func(t *testing.T) {
		cfg, caps, layers, _ := specFixtures()
		page := printview.NewPage("A4 portrait", geo.RectSize{Width: 440, Height: 483})

		_, err := BuildPrintSpec(cfg, caps, layers, page, printview.Options{})
		if err == nil || !strings.Contains(err.Error(), "no scale") {
			t.Errorf("err = %v", err)
		}
	})
}
