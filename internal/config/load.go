package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/safeio"
)

const (
	readConfigFileErrFmt  = "read config file %s: %w"
	parseConfigFileErrFmt = "parse config file %s: %w"
)

var discoveryNames = []string{".triage.yml", ".triage.yaml", ".triage.toml", "triage.json"}

// Load resolves repo-level configuration. An explicit path must
// exist; discovery of the well-known names is best effort and falls
// back to an empty override set.
func Load(repoPath, explicitPath string) (Overrides, string, error) {
	repoAbs, err := filepath.Abs(repoPath)
	if err != nil {
		return Overrides{}, "", fmt.Errorf("resolve repo path: %w", err)
	}

	configPath, found, err := resolveConfigPath(repoAbs, strings.TrimSpace(explicitPath))
	if err != nil {
		return Overrides{}, "", err
	}
	if !found {
		return Overrides{}, "", nil
	}

	data, err := safeio.ReadFile(configPath)
	if err != nil {
		return Overrides{}, "", fmt.Errorf(readConfigFileErrFmt, configPath, err)
	}

	raw, err := parseConfig(configPath, data)
	if err != nil {
		return Overrides{}, "", fmt.Errorf(parseConfigFileErrFmt, configPath, err)
	}

	overrides := raw.toOverrides()
	if err := overrides.Validate(); err != nil {
		return Overrides{}, "", fmt.Errorf(parseConfigFileErrFmt, configPath, err)
	}
	return overrides, configPath, nil
}

func resolveConfigPath(repoPath, explicitPath string) (string, bool, error) {
	if explicitPath != "" {
		candidate := explicitPath
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(repoPath, candidate)
		}
		candidate = filepath.Clean(candidate)
		if _, err := os.Stat(candidate); err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("config file not found: %s", candidate)
			}
			return "", false, fmt.Errorf(readConfigFileErrFmt, candidate, err)
		}
		return candidate, true, nil
	}

	for _, name := range discoveryNames {
		candidate := filepath.Join(repoPath, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !os.IsNotExist(err) {
			return "", false, fmt.Errorf(readConfigFileErrFmt, candidate, err)
		}
	}
	return "", false, nil
}

type rawConfig struct {
	Estimates struct {
		HighMinutes   *int `yaml:"high_minutes" toml:"high_minutes" json:"high_minutes"`
		MediumMinutes *int `yaml:"medium_minutes" toml:"medium_minutes" json:"medium_minutes"`
		LowMinutes    *int `yaml:"low_minutes" toml:"low_minutes" json:"low_minutes"`
	} `yaml:"estimates" toml:"estimates" json:"estimates"`
	SecurityKeywords       []string `yaml:"security_keywords" toml:"security_keywords" json:"security_keywords"`
	CompositionRootMarkers []string `yaml:"composition_root_markers" toml:"composition_root_markers" json:"composition_root_markers"`
	ReferenceTable         *string  `yaml:"reference_table" toml:"reference_table" json:"reference_table"`
}

func parseConfig(path string, data []byte) (rawConfig, error) {
	var cfg rawConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return rawConfig{}, fmt.Errorf("invalid JSON config: %w", err)
		}
		if decoder.More() {
			return rawConfig{}, fmt.Errorf("invalid JSON config: multiple JSON values")
		}
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return rawConfig{}, fmt.Errorf("invalid TOML config: %w", err)
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return rawConfig{}, fmt.Errorf("invalid YAML config: %w", err)
		}
	}
	return cfg, nil
}

func (c *rawConfig) toOverrides() Overrides {
	return Overrides{
		EstimateHighMinutes:    c.Estimates.HighMinutes,
		EstimateMediumMinutes:  c.Estimates.MediumMinutes,
		EstimateLowMinutes:     c.Estimates.LowMinutes,
		SecurityKeywords:       c.SecurityKeywords,
		CompositionRootMarkers: c.CompositionRootMarkers,
		ReferenceTablePath:     c.ReferenceTable,
	}
}
