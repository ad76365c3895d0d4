package config

import (
	"fmt"
	"net/url"

	"github.com/paulmach/orb"

	"mapprint-studio/core/geo"
	"mapprint-studio/core/mapview"
	"mapprint-studio/core/wms"
)

// Config is the application configuration read from bin/config.jsonc.
type Config struct {
	WMS   WMSConfig   `json:"wms"`
	Print PrintConfig `json:"print"`
	Map   MapConfig   `json:"map"`
	HTTP  HTTPConfig  `json:"http"`
}

// WMSConfig points at the map server and declares the layer stack.
type WMSConfig struct {
	URL     string        `json:"url"`
	Version string        `json:"version"`
	Layers  []LayerConfig `json:"layers"`
}

// LayerConfig describes one entry of the layer stack, top of the file being
// the bottom of the stack.
type LayerConfig struct {
	Title        string    `json:"title"`
	Names        []string  `json:"names"`
	LegendLayers []string  `json:"legend_layers,omitempty"`
	Styles       []string  `json:"styles,omitempty"`
	Format       string    `json:"format,omitempty"`
	Transparent  bool      `json:"transparent,omitempty"`
	Opacity      *float64  `json:"opacity,omitempty"`
	Hidden       bool      `json:"hidden,omitempty"`
	NoLegend     bool      `json:"no_legend,omitempty"`
	MaxExtent    []float64 `json:"max_extent,omitempty"` // minx, miny, maxx, maxy
	YX           *bool     `json:"yx,omitempty"`
}

// PrintConfig points at the print service.
type PrintConfig struct {
	CapabilitiesURL string `json:"capabilities_url"`
}

// MapConfig seeds the map view.
type MapConfig struct {
	SRS         string    `json:"srs"`
	Units       string    `json:"units"`
	Center      []float64 `json:"center"` // x, y
	Zoom        int       `json:"zoom"`
	Resolutions []float64 `json:"resolutions,omitempty"`
}

// HTTPConfig tunes outbound connections.
type HTTPConfig struct {
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	SOCKS5Proxy    string `json:"socks5_proxy,omitempty"`
}

// ApplyDefaults fills the optional knobs so the rest of the app never
// checks for zero values.
func (c *Config) ApplyDefaults() {
	if c.WMS.Version == "" {
		c.WMS.Version = wms.DefaultVersion
	}
	if c.Map.SRS == "" {
		c.Map.SRS = "EPSG:3857"
	}
	if c.Map.Units == "" {
		c.Map.Units = "m"
	}
	if len(c.Map.Resolutions) == 0 {
		c.Map.Resolutions = mapview.DefaultResolutions()
	}
	if len(c.Map.Center) == 0 {
		c.Map.Center = []float64{0, 0}
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		c.HTTP.TimeoutSeconds = 30
	}
}

// Validate rejects configurations the app cannot start with. Call after
// ApplyDefaults.
func (c *Config) Validate() error {
	if err := validateServiceURL(c.WMS.URL, "wms.url"); err != nil {
		return err
	}
	if err := validateServiceURL(c.Print.CapabilitiesURL, "print.capabilities_url"); err != nil {
		return err
	}
	if len(c.WMS.Layers) == 0 {
		return fmt.Errorf("config: wms.layers is empty, nothing to show")
	}
	for i, l := range c.WMS.Layers {
		if len(l.Names) == 0 {
			return fmt.Errorf("config: layer %d (%q) has no names", i, l.Title)
		}
		if l.Opacity != nil && (*l.Opacity < 0 || *l.Opacity > 1) {
			return fmt.Errorf("config: layer %d (%q) opacity %v out of [0,1]", i, l.Title, *l.Opacity)
		}
		if n := len(l.MaxExtent); n != 0 && n != 4 {
			return fmt.Errorf("config: layer %d (%q) max_extent needs 4 numbers, got %d", i, l.Title, n)
		}
		if len(l.MaxExtent) == 4 {
			if l.MaxExtent[0] >= l.MaxExtent[2] || l.MaxExtent[1] >= l.MaxExtent[3] {
				return fmt.Errorf("config: layer %d (%q) max_extent is not a valid box", i, l.Title)
			}
		}
	}
	if _, err := geo.ParseUnit(c.Map.Units); err != nil {
		return fmt.Errorf("config: map.units: %w", err)
	}
	if len(c.Map.Center) != 2 {
		return fmt.Errorf("config: map.center needs 2 numbers, got %d", len(c.Map.Center))
	}
	for i, r := range c.Map.Resolutions {
		if r <= 0 {
			return fmt.Errorf("config: map.resolutions[%d] = %v, must be positive", i, r)
		}
	}
	if c.Map.Zoom < 0 || c.Map.Zoom >= len(c.Map.Resolutions) {
		return fmt.Errorf("config: map.zoom %d outside the resolution ladder (0..%d)",
			c.Map.Zoom, len(c.Map.Resolutions)-1)
	}
	return nil
}

func validateServiceURL(raw, field string) error {
	if raw == "" {
		return fmt.Errorf("config: %s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: %s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: %s must be http(s), got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("config: %s has no host", field)
	}
	return nil
}

// MapUnits returns the parsed map unit. Call after Validate.
func (c *Config) MapUnits() geo.Unit {
	u, err := geo.ParseUnit(c.Map.Units)
	if err != nil {
		return geo.Meters
	}
	return u
}

// MapCenter returns the configured start center.
func (c *Config) MapCenter() orb.Point {
	if len(c.Map.Center) != 2 {
		return orb.Point{}
	}
	return orb.Point{c.Map.Center[0], c.Map.Center[1]}
}

// BuildLayers converts the layer stack into live WMS layers. The map's SRS
// and the service version apply to every layer.
func (c *Config) BuildLayers() []*wms.Layer {
	out := make([]*wms.Layer, 0, len(c.WMS.Layers))
	for _, lc := range c.WMS.Layers {
		opacity := 1.0
		if lc.Opacity != nil {
			opacity = *lc.Opacity
		}
		layer := &wms.Layer{
			Title:        lc.Title,
			Names:        append([]string(nil), lc.Names...),
			LegendLayers: append([]string(nil), lc.LegendLayers...),
			Styles:       append([]string(nil), lc.Styles...),
			Version:      c.WMS.Version,
			SRS:          c.Map.SRS,
			Format:       lc.Format,
			Transparent:  lc.Transparent,
			Opacity:      opacity,
			Visible:      !lc.Hidden,
			InLegend:     !lc.NoLegend,
		}
		if len(lc.MaxExtent) == 4 {
			layer.MaxExtent = &orb.Bound{
				Min: orb.Point{lc.MaxExtent[0], lc.MaxExtent[1]},
				Max: orb.Point{lc.MaxExtent[2], lc.MaxExtent[3]},
			}
		}
		if lc.YX != nil {
			yx := *lc.YX
			layer.YX = &yx
		}
		out = append(out, layer)
	}
	return out
}
