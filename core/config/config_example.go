package config

import (
	"fmt"
	"os"
)

// exampleConfig ships with the app; WriteExample drops it next to the real
// config so users have a commented starting point. It deliberately uses
// JSONC comments and trailing commas, the loader accepts both.
const exampleConfig = `{
  // Map server. Any WMS 1.1.1 or 1.3.0 endpoint works.
  "wms": {
    "url": "https://ows.terrestris.de/osm/service",
    "version": "1.1.1",
    "layers": [
      {
        "title": "OpenStreetMap",
        "names": ["OSM-WMS"],
        // Uncomment to request the legend for a sublayer set instead:
        // "legend_layers": ["OSM-WMS"],
        "format": "image/png",
      },
    ],
  },

  // MapFish print service. The capabilities document lists layouts,
  // scales and DPIs; everything else is derived from it.
  "print": {
    "capabilities_url": "http://localhost:8080/print/pdf/info.json",
  },

  "map": {
    "srs": "EPSG:3857",
    "units": "m",
    "center": [1357000, 7558000],
    "zoom": 4,
    // "resolutions": [156543.03392804097, 78271.51696402048],
  },

  "http": {
    "timeout_seconds": 30,
    // "socks5_proxy": "127.0.0.1:1080",
  },
}
`

// WriteExample writes the commented example configuration to path unless a
// file is already there.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}
	return nil
}
