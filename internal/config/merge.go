package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lfs-lab/certtrack/internal/table"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyLogging = "logging"
	keyPager   = "pager"
	keyTables  = "tables"
	keyServer  = "server"
	keyAPI     = "api"
	keySession = "session"
	keyReports = "reports"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyLogging: true,
	keyPager:   true,
	keyTables:  true,
	keyServer:  true,
	keyAPI:     true,
	keySession: true,
	keyReports: true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		// Re-marshal the single section so it can be decoded onto the
		// strongly-typed target field.
		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes data into a fresh value for key and replaces the
// matching field of target. yaml.Unmarshal merges into existing maps, so a
// fresh value is required for whole-section replacement.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyLogging:
		var v LoggingConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Logging = v
	case keyPager:
		var v PagerConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Pager = v
	case keyTables:
		var v []table.Source
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Tables = v
	case keyServer:
		var v ServerConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Server = v
	case keyAPI:
		var v APIConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.API = v
	case keySession:
		var v SessionConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Session = v
	case keyReports:
		var v map[string]ReportConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Reports = v
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
