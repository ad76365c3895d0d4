package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"mapprint-studio/core/geo"
	"mapprint-studio/internal/debuglog"
)

// PrintCapabilities is the wire shape of a MapFish-style info.json
// document: which scales, densities and page layouts the service offers,
// plus the endpoint print jobs are POSTed to.
type PrintCapabilities struct {
	Scales        []NamedValue   `json:"scales"`
	DPIs          []NamedValue   `json:"dpis"`
	OutputFormats []OutputFormat `json:"outputFormats"`
	Layouts       []Layout       `json:"layouts"`
	PrintURL      string         `json:"printURL"`
	CreateURL     string         `json:"createURL"`
}

// NamedValue is the service's {name, value} pair; values arrive quoted or
// bare depending on the server build.
type NamedValue struct {
	Name  string    `json:"name"`
	Value FlexFloat `json:"value"`
}

type OutputFormat struct {
	Name string `json:"name"`
}

// Layout describes one printable page layout and the pixel size of its map
// block at print resolution.
type Layout struct {
	Name     string    `json:"name"`
	Map      LayoutMap `json:"map"`
	Rotation bool      `json:"rotation"`
}

type LayoutMap struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MapSize returns the layout's map block as a pixel rectangle.
func (l Layout) MapSize() geo.RectSize {
	return geo.RectSize{Width: l.Map.Width, Height: l.Map.Height}
}

// ScaleList converts the scale entries in service order.
func (c *PrintCapabilities) ScaleList() []geo.Scale {
	out := make([]geo.Scale, 0, len(c.Scales))
	for _, s := range c.Scales {
		out = append(out, geo.Scale{Name: s.Name, Denominator: float64(s.Value)})
	}
	return out
}

// DPIValues converts the density entries in service order.
func (c *PrintCapabilities) DPIValues() []float64 {
	out := make([]float64, 0, len(c.DPIs))
	for _, d := range c.DPIs {
		out = append(out, float64(d.Value))
	}
	return out
}

// LayoutByName finds a layout; ok is false when the service has none by
// that name.
func (c *PrintCapabilities) LayoutByName(name string) (Layout, bool) {
	for _, l := range c.Layouts {
		if l.Name == name {
			return l, true
		}
	}
	return Layout{}, false
}

// PrintSpec is the job document POSTed to the create endpoint.
type PrintSpec struct {
	Units          string      `json:"units"`
	SRS            string      `json:"srs"`
	Layout         string      `json:"layout"`
	DPI            float64     `json:"dpi"`
	OutputFilename string      `json:"outputFilename,omitempty"`
	Layers         []SpecLayer `json:"layers"`
	Pages          []SpecPage  `json:"pages"`
}

// SpecLayer is one map layer of the job, in the print protocol's shape.
type SpecLayer struct {
	Type         string            `json:"type"`
	BaseURL      string            `json:"baseURL"`
	Layers       []string          `json:"layers"`
	Styles       []string          `json:"styles,omitempty"`
	Format       string            `json:"format"`
	Version      string            `json:"version,omitempty"`
	Opacity      float64           `json:"opacity"`
	CustomParams map[string]string `json:"customParams,omitempty"`
}

// SpecPage places one page: ground center, scale denominator and rotation.
type SpecPage struct {
	Center   []float64 `json:"center"`
	Scale    float64   `json:"scale"`
	Rotation float64   `json:"rotation"`
	Comment  string    `json:"comment,omitempty"`
}

type createResponse struct {
	GetURL string `json:"getURL"`
}

// PrintClient talks to a MapFish-style print service.
type PrintClient struct {
	capabilitiesURL string
	httpClient      *http.Client
	apiLog          io.Writer
}

// NewPrintClient builds a client for the service whose capabilities live at
// capabilitiesURL. client may be nil for the package default; apiLog may be
// nil to skip request logging.
func NewPrintClient(capabilitiesURL string, client *http.Client, apiLog io.Writer) *PrintClient {
	if client == nil {
		client = defaultHTTPClient
	}
	return &PrintClient{
		capabilitiesURL: capabilitiesURL,
		httpClient:      client,
		apiLog:          apiLog,
	}
}

func (c *PrintClient) CapabilitiesURL() string {
	return c.capabilitiesURL
}

// FetchCapabilities downloads and validates the service's info document.
func (c *PrintClient) FetchCapabilities(ctx context.Context) (*PrintCapabilities, error) {
	logf(c.apiLog, "print: GET %s", c.capabilitiesURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.capabilitiesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("print: build capabilities request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logf(c.apiLog, "print: capabilities request failed: %v", err)
		return nil, fmt.Errorf("print: fetch capabilities: %w", err)
	}
	defer debuglog.CloseWithLog("print capabilities body", resp.Body)

	if resp.StatusCode != http.StatusOK {
		logf(c.apiLog, "print: capabilities returned HTTP %d", resp.StatusCode)
		return nil, fmt.Errorf("print: capabilities returned HTTP %d", resp.StatusCode)
	}

	body, err := readBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("print: read capabilities: %w", err)
	}
	debuglog.LogTextFragment("api", debuglog.LevelVerbose, debuglog.UseGlobal,
		"print capabilities", string(body), 500)

	var caps PrintCapabilities
	if err := json.Unmarshal(body, &caps); err != nil {
		return nil, fmt.Errorf("print: decode capabilities: %w", err)
	}
	if err := caps.validate(); err != nil {
		return nil, err
	}

	logf(c.apiLog, "print: capabilities ok (%d scales, %d layouts, %d dpis)",
		len(caps.Scales), len(caps.Layouts), len(caps.DPIs))
	return &caps, nil
}

func (c *PrintCapabilities) validate() error {
	if len(c.Scales) == 0 {
		return fmt.Errorf("print: capabilities carry no scales")
	}
	if len(c.Layouts) == 0 {
		return fmt.Errorf("print: capabilities carry no layouts")
	}
	if c.CreateURL == "" {
		return fmt.Errorf("print: capabilities carry no createURL")
	}
	for _, s := range c.Scales {
		if s.Value <= 0 {
			return fmt.Errorf("print: scale %q has non-positive value %v", s.Name, float64(s.Value))
		}
	}
	return nil
}

// Submit POSTs a job spec to the create endpoint and returns the URL the
// finished document can be fetched from.
func (c *PrintClient) Submit(ctx context.Context, createURL string, spec *PrintSpec) (string, error) {
	payload, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("print: encode job spec: %w", err)
	}
	debuglog.LogTextFragment("api", debuglog.LevelVerbose, debuglog.UseGlobal,
		"print job spec", string(payload), 500)
	logf(c.apiLog, "print: POST %s (layout %q, %d layers)", createURL, spec.Layout, len(spec.Layers))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, createURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("print: build job request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logf(c.apiLog, "print: job request failed: %v", err)
		return "", fmt.Errorf("print: submit job: %w", err)
	}
	defer debuglog.CloseWithLog("print job body", resp.Body)

	body, err := readBody(resp.Body)
	if err != nil {
		return "", fmt.Errorf("print: read job response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logf(c.apiLog, "print: job returned HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
		return "", fmt.Errorf("print: job returned HTTP %d", resp.StatusCode)
	}

	var created createResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("print: decode job response: %w", err)
	}
	if created.GetURL == "" {
		return "", fmt.Errorf("print: job response carries no getURL")
	}

	logf(c.apiLog, "print: job ready at %s", created.GetURL)
	return created.GetURL, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
