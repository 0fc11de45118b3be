package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type SolcConfig struct {
	Path       string   `mapstructure:"path"`
	Remappings []string `mapstructure:"remappings"`
	Optimize   bool     `mapstructure:"optimize"`
}

type OutputConfig struct {
	FrontMatter bool `mapstructure:"front_matter"`
}

type BookConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Title   string   `mapstructure:"title"`
	Authors []string `mapstructure:"authors"`
}

type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

type Config struct {
	Src       string       `mapstructure:"src"`
	Out       string       `mapstructure:"out"`
	Extension string       `mapstructure:"extension"`
	Jobs      int          `mapstructure:"jobs"`
	Solc      SolcConfig   `mapstructure:"solc"`
	Output    OutputConfig `mapstructure:"output"`
	Book      BookConfig   `mapstructure:"book"`
	Watch     WatchConfig  `mapstructure:"watch"`
}

// cacheBase returns the base cache directory for soldoc.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/soldoc as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "soldoc")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "soldoc")
	}
	return filepath.Join(os.TempDir(), "soldoc")
}

// ArtifactCachePath returns where the last compiler output is kept so a
// rebuild can skip solc.
func ArtifactCachePath() string {
	return filepath.Join(cacheBase(), "artifact.json.zst")
}

// CASDir returns the compile cache directory.
func CASDir() string {
	return filepath.Join(cacheBase(), "cas")
}

// DefaultOut derives the documentation directory from the source directory:
// a sibling docs/src tree.
func DefaultOut(src string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(src)), "docs", "src")
}

func InitializeViper() error {
	viper.SetConfigName("soldoc")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "soldoc"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "soldoc"))
	}

	viper.SetDefault("src", "src")
	viper.SetDefault("out", "")
	viper.SetDefault("extension", ".sol")
	viper.SetDefault("jobs", 4)
	viper.SetDefault("solc.path", "solc")
	viper.SetDefault("solc.remappings", []string{})
	viper.SetDefault("solc.optimize", false)
	viper.SetDefault("output.front_matter", false)
	viper.SetDefault("book.enabled", false)
	viper.SetDefault("book.title", "")
	viper.SetDefault("book.authors", []string{})
	viper.SetDefault("watch.debounce_ms", 300)

	viper.SetEnvPrefix("SOLDOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// stringToListHookFunc splits comma-separated strings, which is how list
// settings arrive from the environment.
func stringToListHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf([]string{}) {
			return data, nil
		}
		raw := strings.TrimSpace(data.(string))
		if raw == "" {
			return []string{}, nil
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToListHookFunc(),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Out == "" {
		config.Out = DefaultOut(config.Src)
	}
	if config.Jobs <= 0 {
		config.Jobs = 1
	}
	config.Solc.Path = expandHome(config.Solc.Path)

	return &config, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path[2:])
	}
	return path
}
