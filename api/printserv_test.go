package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const capabilitiesFixture = `{
	"scales": [
		{"name": "1:25,000", "value": "25000.0"},
		{"name": "1:50,000", "value": "50000.0"},
		{"name": "1:100,000", "value": 100000}
	],
	"dpis": [
		{"name": "75", "value": "75"},
		{"name": "300", "value": "300"}
	],
	"outputFormats": [{"name": "pdf"}],
	"layouts": [
		{"name": "A4 portrait", "map": {"width": 440, "height": 483}, "rotation": true},
		{"name": "A3 landscape", "map": {"width": 1050, "height": 660}, "rotation": false}
	],
	"printURL": "http://print.example/print.pdf",
	"createURL": "http://print.example/create.json"
}`

func TestFetchCapabilities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("capabilities fetched with %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(capabilitiesFixture))
	}))
	defer srv.Close()

	var logBuf bytes.Buffer
	c := NewPrintClient(srv.URL+"/info.json", srv.Client(), &logBuf)

	caps, err := c.FetchCapabilities(context.Background())
	if err != nil {
		t.Fatalf("FetchCapabilities: %v", err)
	}

	scales := caps.ScaleList()
	if len(scales) != 3 {
		t.Fatalf("got %d scales; want 3", len(scales))
	}
	if scales[0].Denominator != 25000 || scales[2].Denominator != 100000 {
		t.Errorf("scale values = %v, %v; want 25000, 100000", scales[0].Denominator, scales[2].Denominator)
	}
	if scales[1].Name != "1:50,000" {
		t.Errorf("scale order not preserved: %q", scales[1].Name)
	}

	dpis := caps.DPIValues()
	if len(dpis) != 2 || dpis[1] != 300 {
		t.Errorf("dpis = %v; want [75 300]", dpis)
	}

	layout, ok := caps.LayoutByName("A4 portrait")
	if !ok {
		t.Fatal("A4 portrait layout missing")
	}
	if size := layout.MapSize(); size.Width != 440 || size.Height != 483 {
		t.Errorf("layout map size = %+v", size)
	}
	if !layout.Rotation {
		t.Error("layout rotation flag lost")
	}
	if _, ok := caps.LayoutByName("A0"); ok {
		t.Error("unknown layout reported as present")
	}

	if !strings.Contains(logBuf.String(), "print: GET") {
		t.Errorf("api log missing request line: %q", logBuf.String())
	}
}

func TestFetchCapabilitiesRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no scales", `{"scales":[],"layouts":[{"name":"x","map":{"width":1,"height":1}}],"createURL":"u"}`},
		{"no layouts", `{"scales":[{"name":"a","value":"1"}],"layouts":[],"createURL":"u"}`},
		{"no createURL", `{"scales":[{"name":"a","value":"1"}],"layouts":[{"name":"x","map":{"width":1,"height":1}}]}`},
		{"non-positive scale", `{"scales":[{"name":"a","value":"0"}],"layouts":[{"name":"x","map":{"width":1,"height":1}}],"createURL":"u"}`},
		{"not json", `<html>login required</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewPrintClient(srv.URL, srv.Client(), nil)
			if _, err := c.FetchCapabilities(context.Background()); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFetchCapabilitiesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewPrintClient(srv.URL, srv.Client(), nil)
	if _, err := c.FetchCapabilities(context.Background()); err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("want HTTP 500 error, got %v", err)
	}
}

func TestSubmit(t *testing.T) {
	var received PrintSpec
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("job submitted with %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode submitted spec: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"getURL": "http://print.example/out/doc.pdf"})
	}))
	defer srv.Close()

	spec := &PrintSpec{
		Units:  "m",
		SRS:    "EPSG:3857",
		Layout: "A4 portrait",
		DPI:    300,
		Layers: []SpecLayer{{
			Type:    "WMS",
			BaseURL: "http://wms.example/wms",
			Layers:  []string{"roads", "rivers"},
			Format:  "image/png",
			Opacity: 1,
		}},
		Pages: []SpecPage{{
			Center:  []float64{100, 200},
			Scale:   25000,
			Comment: "site overview",
		}},
	}

	c := NewPrintClient(srv.URL+"/info.json", srv.Client(), nil)
	got, err := c.Submit(context.Background(), srv.URL+"/create.json", spec)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got != "http://print.example/out/doc.pdf" {
		t.Errorf("getURL = %q", got)
	}
	if received.Layout != "A4 portrait" || len(received.Layers) != 1 || received.Pages[0].Scale != 25000 {
		t.Errorf("server saw %+v", received)
	}
}

func TestSubmitFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"http error",
			func(w http.ResponseWriter, r *http.Request) { http.Error(w, "nope", http.StatusBadGateway) },
		},
		{
			"missing getURL",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{}`)) },
		},
		{
			"garbage response",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`pdf ready!`)) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewPrintClient(srv.URL, srv.Client(), nil)
			if _, err := c.Submit(context.Background(), srv.URL, &PrintSpec{}); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFlexFloat(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{"quoted decimal", `"25000.0"`, 25000, false},
		{"bare number", `25000`, 25000, false},
		{"quoted with spaces", `" 300 "`, 300, false},
		{"empty string", `""`, 0, false},
		{"words", `"a lot"`, 0, true},
		{"boolean", `true`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			err := json.Unmarshal([]byte(tt.raw), &f)
			if tt.wantErr {
				if err == nil {
					t.Errorf("want error, got %v", float64(f))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if float64(f) != tt.want {
				t.Errorf("got %v; want %v", float64(f), tt.want)
			}
		})
	}
}
