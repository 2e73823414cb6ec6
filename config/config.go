// Package config loads the interop feature configuration.
//
// Settings come from, in increasing priority: defaults, an optional YAML or
// TOML file, and INTEROP_* environment variables. The CLI binds its flags
// into the same viper instance.
package config

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/feature"
	"github.com/wippyai/interop/registry"
	"github.com/wippyai/interop/tagspace"
)

// EnvPrefix prefixes every environment variable, as in INTEROP_PROFILE.
const EnvPrefix = "INTEROP"

// Config holds the interop configuration.
type Config struct {
	// Profile names a base feature set: portable, windows, windows-com or
	// host. Empty means host.
	Profile string `mapstructure:"profile"`
	// Features are enabled on top of the profile.
	Features []string `mapstructure:"features"`
	// Schema is a declaration table to load instead of the embedded one.
	Schema string `mapstructure:"schema"`
	// Manifest is the default manifest path for the CLI.
	Manifest  string `mapstructure:"manifest"`
	Verbose   bool   `mapstructure:"verbose"`
	HeapPages uint32 `mapstructure:"heap_pages"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Profile:   feature.ProfileHost,
		Features:  []string{},
		Manifest:  "mtypes.manifest",
		HeapPages: 1,
	}
}

// SetDefaults registers the defaults on v. Every key needs a default so
// that environment variables are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("profile", d.Profile)
	v.SetDefault("features", d.Features)
	v.SetDefault("schema", d.Schema)
	v.SetDefault("manifest", d.Manifest)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("heap_pages", d.HeapPages)
}

// Load reads the configuration. When file is empty, interop.yaml or
// interop.toml in the working directory is used if present.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("interop")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !stderrors.As(err, &notFound) {
			return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "decode config")
	}
	cfg.Features = splitFeatures(cfg.Features)
	return cfg, nil
}

// splitFeatures accepts both lists and comma or space separated strings.
func splitFeatures(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, f := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, f)
		}
	}
	return out
}

// Space returns the declaration table the configuration selects.
func (c Config) Space() (*tagspace.Space, error) {
	if c.Schema == "" {
		return tagspace.Default(), nil
	}
	data, err := os.ReadFile(c.Schema)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "read schema "+c.Schema)
	}
	return tagspace.Load(data)
}

// FeatureSet resolves the profile and extra features into a validated set.
func (c Config) FeatureSet() (feature.Set, error) {
	base, err := feature.Profile(c.Profile)
	if err != nil {
		return feature.Set{}, err
	}
	flags := make([]feature.Flag, len(c.Features))
	for i, f := range c.Features {
		flags[i] = feature.Flag(f)
	}
	set := base.With(flags...)

	space, err := c.Space()
	if err != nil {
		return feature.Set{}, err
	}
	if err := feature.Validate(set, space.Features()); err != nil {
		return feature.Set{}, err
	}
	return set, nil
}

// Registry builds the registry for this configuration.
func (c Config) Registry(opts ...registry.Option) (*registry.Registry, error) {
	set, err := c.FeatureSet()
	if err != nil {
		return nil, err
	}
	if c.Schema != "" {
		space, err := c.Space()
		if err != nil {
			return nil, err
		}
		opts = append([]registry.Option{registry.WithSpace(space)}, opts...)
	}
	return registry.Build(set, opts...)
}
