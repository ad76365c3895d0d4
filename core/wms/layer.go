package wms

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Defaults applied when a layer leaves protocol fields unset.
const (
	DefaultVersion     = "1.1.1"
	DefaultImageFormat = "image/png"
)

// latitudeFirstCRS lists coordinate systems whose official axis order is
// latitude,longitude. WMS 1.3.0 honors that order in BBOX; earlier
// versions always use x,y.
var latitudeFirstCRS = map[string]bool{
	"EPSG:4326": true,
	"EPSG:4258": true,
	"EPSG:4269": true,
}

// Layer describes one WMS layer stack shown on the map: which server-side
// layer names it bundles, how to draw them, and how legend requests should
// address them.
type Layer struct {
	Title string

	// Names are the server-side layer names, in draw order. They become
	// the LAYERS parameter of GetMap requests and, absent LegendLayers,
	// of legend requests too.
	Names []string

	// LegendLayers optionally narrows legend requests to a sublayer set.
	// When non-empty it wins over Names.
	LegendLayers []string

	// Styles is aligned with Names; missing entries mean server default.
	Styles []string

	Version     string
	SRS         string
	Format      string
	Transparent bool
	Opacity     float64

	// Visible controls GetMap participation, InLegend controls whether
	// the legend panel shows a block for the layer at all.
	Visible  bool
	InLegend bool

	// MaxExtent, when set, constrains request bounding boxes to the
	// region the server actually covers.
	MaxExtent *orb.Bound

	// YX overrides the axis-order decision for servers that deviate from
	// the version rules.
	YX *bool
}

// EffectiveVersion returns the protocol version with the default applied.
func (l *Layer) EffectiveVersion() string {
	if l.Version == "" {
		return DefaultVersion
	}
	return l.Version
}

// EffectiveFormat returns the image format with the default applied.
func (l *Layer) EffectiveFormat() string {
	if l.Format == "" {
		return DefaultImageFormat
	}
	return l.Format
}

// LegendNames returns the layer names legend requests should carry.
func (l *Layer) LegendNames() []string {
	if len(l.LegendLayers) > 0 {
		return l.LegendLayers
	}
	return l.Names
}

// ReverseAxisOrder reports whether bounding boxes for this layer must be
// serialized latitude-first.
func (l *Layer) ReverseAxisOrder() bool {
	if l.YX != nil {
		return *l.YX
	}
	return versionAtLeast(l.EffectiveVersion(), 1, 3) && latitudeFirstCRS[l.SRS]
}

// Clone returns an independent copy of the layer. Preview maps mutate their
// copies without touching the source view's layers.
func (l *Layer) Clone() *Layer {
	if l == nil {
		return nil
	}
	out := *l
	out.Names = append([]string(nil), l.Names...)
	out.LegendLayers = append([]string(nil), l.LegendLayers...)
	out.Styles = append([]string(nil), l.Styles...)
	if l.MaxExtent != nil {
		b := *l.MaxExtent
		out.MaxExtent = &b
	}
	if l.YX != nil {
		yx := *l.YX
		out.YX = &yx
	}
	return &out
}

// versionAtLeast compares a dotted protocol version against major.minor.
// Malformed segments count as zero.
func versionAtLeast(version string, major, minor int) bool {
	parts := strings.SplitN(version, ".", 3)
	maj, min := 0, 0
	if len(parts) > 0 {
		maj, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		min, _ = strconv.Atoi(parts[1])
	}
	if maj != major {
		return maj > major
	}
	return min >= minor
}

// srsKey returns the name of the CRS query parameter for a protocol version.
func srsKey(version string) string {
	if versionAtLeast(version, 1, 3) {
		return "CRS"
	}
	return "SRS"
}

// FormatBBox serializes a bounding box as a WMS BBOX parameter value,
// latitude-first when reverse is set.
func FormatBBox(b orb.Bound, reverse bool) string {
	if reverse {
		return joinFloats(b.Min.Y(), b.Min.X(), b.Max.Y(), b.Max.X())
	}
	return joinFloats(b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
}

func joinFloats(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
