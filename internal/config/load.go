package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
)

const configFileName = "config.yaml"

// LoadConfig populates cfg in three layers: struct defaults, environment
// variables, and finally the first config.yaml found in searchPaths. Keys
// absent from the file keep their environment or default values. A missing
// config file is not an error; defaults and environment are enough to run.
func LoadConfig(cfg *Config, searchPaths ...string) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("applying config defaults: %w", err)
	}

	for _, path := range searchPaths {
		file := filepath.Join(os.ExpandEnv(path), configFileName)

		data, err := os.ReadFile(file)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return fmt.Errorf("reading config file %s: %w", file, err)
		}

		if err := decodeYAML(data, cfg); err != nil {
			return fmt.Errorf("decoding config file %s: %w", file, err)
		}

		break
	}

	return nil
}

// decodeYAML goes through a generic map so that mapstructure can apply the
// duration and string-conversion hooks the yaml decoder lacks.
func decodeYAML(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshaling yaml: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  cfg,
		TagName: "yaml",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decoding config map: %w", err)
	}

	return nil
}
