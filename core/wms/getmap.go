package wms

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"mapprint-studio/core/geo"
)

// GetMapParams carries the query parameters of a GetMap request covering a
// whole viewport. Overlay layers are merged into a single request, so they
// must agree on version, CRS and format; the first visible layer decides.
type GetMapParams struct {
	BBox        orb.Bound
	Size        geo.RectSize
	Layers      []string
	Styles      []string
	Format      string
	Version     string
	SRS         string
	Transparent bool
	ReverseAxis bool
}

// BuildGetMapParams merges the visible layers into one GetMap request for
// vp. Returns nil when the view is nil or nothing is visible.
func BuildGetMapParams(layers []*Layer, vp *geo.Viewport) *GetMapParams {
	if vp == nil {
		return nil
	}

	var first *Layer
	var names, styles []string
	for _, l := range layers {
		if l == nil || !l.Visible {
			continue
		}
		if first == nil {
			first = l
		}
		names = append(names, l.Names...)
		for i := range l.Names {
			if i < len(l.Styles) {
				styles = append(styles, l.Styles[i])
			} else {
				styles = append(styles, "")
			}
		}
	}
	if first == nil {
		return nil
	}

	return &GetMapParams{
		BBox:        vp.Extent(),
		Size:        vp.Size,
		Layers:      names,
		Styles:      styles,
		Format:      first.EffectiveFormat(),
		Version:     first.EffectiveVersion(),
		SRS:         first.SRS,
		Transparent: first.Transparent,
		ReverseAxis: first.ReverseAxisOrder(),
	}
}

// Values encodes the request as WMS query parameters.
func (p *GetMapParams) Values() url.Values {
	v := url.Values{}
	v.Set("SERVICE", "WMS")
	v.Set("VERSION", p.Version)
	v.Set("REQUEST", "GetMap")
	v.Set("LAYERS", strings.Join(p.Layers, ","))
	v.Set("STYLES", strings.Join(p.Styles, ","))
	v.Set("FORMAT", p.Format)
	if p.Transparent {
		v.Set("TRANSPARENT", "TRUE")
	}
	if p.SRS != "" {
		v.Set(srsKey(p.Version), p.SRS)
	}
	v.Set("BBOX", FormatBBox(p.BBox, p.ReverseAxis))
	v.Set("WIDTH", strconv.Itoa(p.Size.Width))
	v.Set("HEIGHT", strconv.Itoa(p.Size.Height))
	return v
}

// URL resolves the request against the service base URL.
func (p *GetMapParams) URL(base string) (string, error) {
	return requestURL(base, p.Values())
}
