package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mapprint-studio/api"
)

const capabilitiesBody = `{
	"scales": [
		{"name": "1:25,000", "value": "25000.0"},
		{"name": "1:50,000", "value": "50000.0"}
	],
	"dpis": [{"name": "150", "value": "150"}],
	"layouts": [{"name": "A4 portrait", "map": {"width": 440, "height": 483}, "rotation": true}],
	"createURL": "http://print.example/create.json"
}`

func capabilityServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(capabilitiesBody))
	}))
}

func TestCapabilityServiceBeforeLoad(t *testing.T) {
	cs := NewCapabilityService(nil, nil, nil)

	if cs.Loaded() {
		t.Error("fresh service reports loaded")
	}
	if got := cs.Scales(); len(got) != 0 {
		t.Errorf("Scales before load = %v", got)
	}
	if got := cs.Layouts(); len(got) != 0 {
		t.Errorf("Layouts before load = %v", got)
	}
	if got := cs.DPIValues(); len(got) != 0 {
		t.Errorf("DPIValues before load = %v", got)
	}
	if got := cs.CreateURL(); got != "" {
		t.Errorf("CreateURL before load = %q", got)
	}
	if err := cs.LoadOnce(context.Background()); err == nil {
		t.Error("LoadOnce without client should fail")
	}
}

func TestCapabilityServiceLoadOnce(t *testing.T) {
	srv := capabilityServer()
	defer srv.Close()

	notified := 0
	cs := NewCapabilityService(api.NewPrintClient(srv.URL, srv.Client(), nil),
		func() { notified++ }, nil)

	if err := cs.LoadOnce(context.Background()); err != nil {
		t.Fatalf("LoadOnce: %v", err)
	}

	if !cs.Loaded() {
		t.Fatal("service not loaded after successful fetch")
	}
	if notified != 1 {
		t.Errorf("loaded callback fired %d times; want 1", notified)
	}
	scales := cs.Scales()
	if len(scales) != 2 || scales[0].Denominator != 25000 {
		t.Errorf("scales = %+v", scales)
	}
	if cs.CreateURL() != "http://print.example/create.json" {
		t.Errorf("CreateURL = %q", cs.CreateURL())
	}
	layouts := cs.Layouts()
	if len(layouts) != 1 || layouts[0].Name != "A4 portrait" {
		t.Errorf("layouts = %+v", layouts)
	}
}

func TestCapabilityServiceLoadOnceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "warming up", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	notified := 0
	cs := NewCapabilityService(api.NewPrintClient(srv.URL, srv.Client(), nil),
		func() { notified++ }, nil)

	if err := cs.LoadOnce(context.Background()); err == nil {
		t.Fatal("expected error from failing service")
	}
	if cs.Loaded() || notified != 0 {
		t.Errorf("failed load changed state: loaded=%v notified=%d", cs.Loaded(), notified)
	}
}

func TestAutoLoadCapabilities(t *testing.T) {
	srv := capabilityServer()
	defer srv.Close()

	loaded := make(chan struct{}, 1)
	cs := NewCapabilityService(api.NewPrintClient(srv.URL, srv.Client(), nil),
		func() { loaded <- struct{}{} }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cs.AutoLoadCapabilities(ctx)

	select {
	case <-loaded:
	case <-time.After(5 * time.Second):
		t.Fatal("auto load did not finish in time")
	}
	if !cs.Loaded() {
		t.Error("service not loaded after auto load")
	}
}
