package api

import (
	"context"
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"

	// Register the decoders map servers actually answer with.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"mapprint-studio/internal/debuglog"
)

// WMSClient fetches rendered imagery from one WMS endpoint.
type WMSClient struct {
	baseURL    string
	httpClient *http.Client
	apiLog     io.Writer
}

// NewWMSClient builds a client for the service at baseURL. client may be
// nil for the package default; apiLog may be nil to skip request logging.
func NewWMSClient(baseURL string, client *http.Client, apiLog io.Writer) *WMSClient {
	if client == nil {
		client = defaultHTTPClient
	}
	return &WMSClient{
		baseURL:    baseURL,
		httpClient: client,
		apiLog:     apiLog,
	}
}

func (c *WMSClient) BaseURL() string {
	return c.baseURL
}

// FetchImage downloads and decodes one rendered image (GetMap or
// GetLegendGraphic). WMS errors arrive as XML with a 200 status, so the
// content type is checked before decoding.
func (c *WMSClient) FetchImage(ctx context.Context, rawURL string) (image.Image, error) {
	logf(c.apiLog, "wms: GET %s", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wms: build image request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logf(c.apiLog, "wms: image request failed: %v", err)
		return nil, fmt.Errorf("wms: fetch image: %w", err)
	}
	defer debuglog.CloseWithLog("wms image body", resp.Body)

	if resp.StatusCode != http.StatusOK {
		logf(c.apiLog, "wms: image returned HTTP %d", resp.StatusCode)
		return nil, fmt.Errorf("wms: image returned HTTP %d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if strings.Contains(ct, "xml") || strings.HasPrefix(ct, "text/") {
		body, _ := readBody(resp.Body)
		msg := truncate(strings.TrimSpace(string(body)), 300)
		logf(c.apiLog, "wms: service exception: %s", msg)
		return nil, fmt.Errorf("wms: service exception: %s", msg)
	}

	img, format, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wms: decode image: %w", err)
	}
	debuglog.Log("api", debuglog.LevelVerbose, debuglog.UseGlobal,
		"wms image decoded: %s %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// capabilitiesURL builds the GetCapabilities request URL off the base.
func (c *WMSClient) capabilitiesURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("wms: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("SERVICE", "WMS")
	q.Set("REQUEST", "GetCapabilities")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Ping asks the server for its capabilities document and reports whether it
// answered at all. The body is discarded; diagnostics only need liveness.
func (c *WMSClient) Ping(ctx context.Context) error {
	capURL, err := c.capabilitiesURL()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, capURL, nil)
	if err != nil {
		return fmt.Errorf("wms: build ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logf(c.apiLog, "wms: ping failed: %v", err)
		return fmt.Errorf("wms: ping: %w", err)
	}
	defer debuglog.CloseWithLog("wms ping body", resp.Body)
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= http.StatusBadRequest {
		logf(c.apiLog, "wms: ping returned HTTP %d", resp.StatusCode)
		return fmt.Errorf("wms: ping returned HTTP %d", resp.StatusCode)
	}
	logf(c.apiLog, "wms: ping ok (HTTP %d)", resp.StatusCode)
	return nil
}

// ServiceInfo is the identity block of a WMS capabilities document.
type ServiceInfo struct {
	Version string
	Name    string
	Title   string
}

// wmsCapabilitiesDoc matches both capability roots: WMT_MS_Capabilities
// (1.1.1) and WMS_Capabilities (1.3.0). Only the identity block is decoded.
type wmsCapabilitiesDoc struct {
	XMLName xml.Name
	Version string `xml:"version,attr"`
	Service struct {
		Name  string `xml:"Name"`
		Title string `xml:"Title"`
	} `xml:"Service"`
}

// FetchServiceInfo downloads the capabilities document and extracts the
// server's identity. The diagnostics tab shows it; nothing else depends on
// capability contents.
func (c *WMSClient) FetchServiceInfo(ctx context.Context) (*ServiceInfo, error) {
	capURL, err := c.capabilitiesURL()
	if err != nil {
		return nil, err
	}
	logf(c.apiLog, "wms: GET %s", capURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, capURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wms: build capabilities request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logf(c.apiLog, "wms: capabilities request failed: %v", err)
		return nil, fmt.Errorf("wms: fetch capabilities: %w", err)
	}
	defer debuglog.CloseWithLog("wms capabilities body", resp.Body)

	if resp.StatusCode != http.StatusOK {
		logf(c.apiLog, "wms: capabilities returned HTTP %d", resp.StatusCode)
		return nil, fmt.Errorf("wms: capabilities returned HTTP %d", resp.StatusCode)
	}

	body, err := readBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wms: read capabilities: %w", err)
	}

	var doc wmsCapabilitiesDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("wms: decode capabilities: %w", err)
	}
	if doc.Version == "" && doc.Service.Title == "" {
		return nil, fmt.Errorf("wms: capabilities carry no service identity")
	}

	info := &ServiceInfo{
		Version: doc.Version,
		Name:    doc.Service.Name,
		Title:   doc.Service.Title,
	}
	logf(c.apiLog, "wms: capabilities ok (version %s, title %q)", info.Version, info.Title)
	return info, nil
}
