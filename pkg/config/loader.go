package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fernwood-labs/schemacat/pkg/catalog"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "schemacat.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "schemacat.yml"

// EnvPrefix is the prefix for environment variable overrides.
// SCHEMACAT_DIALECT sets dialect; nested keys use double underscores,
// SCHEMACAT_SOURCE__TYPE sets source.type.
const EnvPrefix = "SCHEMACAT_"

// Load reads configuration with the precedence (highest to lowest):
// environment variables > config file > defaults. An empty path skips
// the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"dialect":            DefaultDialect,
		"unknown_statements": "skip",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.ComposeDecodeHookFunc(policyHook),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadFromDir loads configuration from schemacat.yaml or schemacat.yml
// in the given directory. A missing file is not an error; defaults and
// environment variables still apply.
func LoadFromDir(dir string) (*Config, error) {
	return Load(findConfigFile(dir))
}

// findConfigFile finds the config file in the given directory.
// Returns empty string if not found.
func findConfigFile(dir string) string {
	yamlPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}

	ymlPath := filepath.Join(dir, ConfigFileNameAlt)
	if _, err := os.Stat(ymlPath); err == nil {
		return ymlPath
	}

	return ""
}

// policyHook decodes "skip" and "reject" into the builder's statement
// policy.
func policyHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(catalog.SkipUnknownStatements) || from.Kind() != reflect.String {
		return data, nil
	}
	switch strings.ToLower(data.(string)) {
	case "", "skip":
		return catalog.SkipUnknownStatements, nil
	case "reject":
		return catalog.RejectUnknownStatements, nil
	}
	return nil, fmt.Errorf("unknown statement policy %q (want skip or reject)", data)
}
