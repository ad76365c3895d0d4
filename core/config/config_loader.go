package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/muhammadmuzzammil1998/jsonc"
)

var reTrailingCommas = regexp.MustCompile(`,(\s*[\]\}])`)

func removeTrailingCommas(data []byte) []byte {
	return reTrailingCommas.ReplaceAll(data, []byte("$1"))
}

// getConfigJSON reads config and returns JSON safe to parse (JSONC + trailing commas removed).
// Trailing commas are removed before and after jsonc so jsonc never sees invalid input and we still fix cases like , // comment \n ].
func getConfigJSON(configPath string) ([]byte, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	data = removeTrailingCommas(data) // before jsonc so it doesn't fail on simple ,]
	cleanData := jsonc.ToJSON(data)
	cleanData = removeTrailingCommas(cleanData) // after jsonc for cases like , // comment \n ]
	return cleanData, nil
}

// Load reads, parses and validates the configuration file. The returned
// Config has all defaults applied.
func Load(configPath string) (*Config, error) {
	cleanData, err := getConfigJSON(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(cleanData, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ServiceURLs extracts just the two service endpoints without running full
// validation. The diagnostics tab uses it to probe connectivity even when
// the rest of the file is incomplete.
func ServiceURLs(configPath string) (wmsURL, printURL string, err error) {
	cleanData, err := getConfigJSON(configPath)
	if err != nil {
		return "", "", err
	}
	var jsonData map[string]interface{}
	if err := json.Unmarshal(cleanData, &jsonData); err != nil {
		return "", "", fmt.Errorf("failed to parse JSON: %w", err)
	}

	if wmsSection, ok := jsonData["wms"].(map[string]interface{}); ok {
		wmsURL, _ = wmsSection["url"].(string)
	}
	if printSection, ok := jsonData["print"].(map[string]interface{}); ok {
		printURL, _ = printSection["capabilities_url"].(string)
	}
	return wmsURL, printURL, nil
}
