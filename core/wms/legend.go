package wms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"mapprint-studio/core/geo"
)

// LegendParams carries everything a GetLegendGraphic request needs. Values
// are fully resolved: defaults applied, bounds clipped, axis order decided.
type LegendParams struct {
	BBox        orb.Bound
	Size        geo.RectSize
	Layers      []string
	Format      string
	Version     string
	SRS         string
	ReverseAxis bool
}

// BuildLegendParams derives the legend request for a layer as currently
// shown in vp. A nil viewport means the layer is not on a live view; the
// result is nil and callers must leave the existing legend untouched.
// Neither argument is modified.
func BuildLegendParams(layer *Layer, vp *geo.Viewport) *LegendParams {
	if layer == nil || vp == nil {
		return nil
	}

	box := vp.Extent()
	if layer.MaxExtent != nil {
		box = geo.ClipBound(box, *layer.MaxExtent)
	}

	return &LegendParams{
		BBox:        box,
		Size:        geo.PixelSpan(box, vp.Resolution),
		Layers:      append([]string(nil), layer.LegendNames()...),
		Format:      layer.EffectiveFormat(),
		Version:     layer.EffectiveVersion(),
		SRS:         layer.SRS,
		ReverseAxis: layer.ReverseAxisOrder(),
	}
}

// Values encodes the request as WMS query parameters.
func (p *LegendParams) Values() url.Values {
	v := url.Values{}
	v.Set("SERVICE", "WMS")
	v.Set("VERSION", p.Version)
	v.Set("REQUEST", "GetLegendGraphic")
	v.Set("LAYERS", strings.Join(p.Layers, ","))
	v.Set("FORMAT", p.Format)
	if p.SRS != "" {
		v.Set(srsKey(p.Version), p.SRS)
	}
	v.Set("BBOX", FormatBBox(p.BBox, p.ReverseAxis))
	v.Set("WIDTH", strconv.Itoa(p.Size.Width))
	v.Set("HEIGHT", strconv.Itoa(p.Size.Height))
	return v
}

// URL resolves the request against the service base URL. Query parameters
// already baked into the base are kept unless the request overrides them.
func (p *LegendParams) URL(base string) (string, error) {
	return requestURL(base, p.Values())
}

func requestURL(base string, params url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("wms: parse base url %q: %w", base, err)
	}
	q := u.Query()
	for k, vs := range params {
		q[k] = vs
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
