package api

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode fixture png: %v", err)
	}
	return buf.Bytes()
}

func TestFetchImage(t *testing.T) {
	fixture := pngBytes(t, 64, 32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(fixture)
	}))
	defer srv.Close()

	c := NewWMSClient(srv.URL, srv.Client(), nil)
	img, err := c.FetchImage(context.Background(), srv.URL+"/?REQUEST=GetMap")
	if err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("decoded size = %dx%d; want 64x32", b.Dx(), b.Dy())
	}
}

func TestFetchImageServiceException(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.ogc.se_xml")
		w.Write([]byte(`<ServiceExceptionReport>Layer not defined</ServiceExceptionReport>`))
	}))
	defer srv.Close()

	c := NewWMSClient(srv.URL, srv.Client(), nil)
	_, err := c.FetchImage(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "service exception") {
		t.Errorf("want service exception error, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "Layer not defined") {
		t.Errorf("exception text lost: %v", err)
	}
}

func TestFetchImageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewWMSClient(srv.URL, srv.Client(), nil)
	if _, err := c.FetchImage(context.Background(), srv.URL); err == nil {
		t.Error("expected error for HTTP 404")
	}
}

func TestFetchImageGarbageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("this is not a png"))
	}))
	defer srv.Close()

	c := NewWMSClient(srv.URL, srv.Client(), nil)
	if _, err := c.FetchImage(context.Background(), srv.URL); err == nil {
		t.Error("expected decode error")
	}
}

func TestPing(t *testing.T) {
	var sawQuery bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		sawQuery = q.Get("SERVICE") == "WMS" && q.Get("REQUEST") == "GetCapabilities"
		w.Write([]byte(`<WMS_Capabilities/>`))
	}))
	defer srv.Close()

	var logBuf bytes.Buffer
	c := NewWMSClient(srv.URL+"/wms?map=demo", srv.Client(), &logBuf)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if !sawQuery {
		t.Error("ping did not ask for capabilities")
	}
	if !strings.Contains(logBuf.String(), "ping ok") {
		t.Errorf("api log missing ping result: %q", logBuf.String())
	}
}

func TestPingReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "db down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewWMSClient(srv.URL, srv.Client(), nil)
	if err := c.Ping(context.Background()); err == nil {
		t.Error("expected error for HTTP 503")
	}
}

func TestFetchServiceInfo(t *testing.T) {
	// Servers answer with one of two root elements depending on version.
	tests := []struct {
		name string
		body string
		want ServiceInfo
	}{
		{
			name: "1.3.0 root",
			body: `<?xml version="1.0"?>
<WMS_Capabilities version="1.3.0">
  <Service>
    <Name>WMS</Name>
    <Title>City Basemap</Title>
  </Service>
</WMS_Capabilities>`,
			want: ServiceInfo{Version: "1.3.0", Name: "WMS", Title: "City Basemap"},
		},
		{
			name: "1.1.1 root",
			body: `<?xml version="1.0"?>
<WMT_MS_Capabilities version="1.1.1">
  <Service>
    <Name>OGC:WMS</Name>
    <Title>Legacy Atlas</Title>
  </Service>
</WMT_MS_Capabilities>`,
			want: ServiceInfo{Version: "1.1.1", Name: "OGC:WMS", Title: "Legacy Atlas"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/xml")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewWMSClient(srv.URL, srv.Client(), nil)
			info, err := c.FetchServiceInfo(context.Background())
			if err != nil {
				t.Fatalf("FetchServiceInfo: %v", err)
			}
			if *info != tt.want {
				t.Errorf("info = %+v; want %+v", *info, tt.want)
			}
		})
	}
}

func TestFetchServiceInfoRejectsEmptyIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(`<html><body>login page</body></html>`))
	}))
	defer srv.Close()

	c := NewWMSClient(srv.URL, srv.Client(), nil)
	if _, err := c.FetchServiceInfo(context.Background()); err == nil {
		t.Error("expected error for a document with no service identity")
	}
}
