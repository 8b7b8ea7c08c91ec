// Package config loads the shell's YAML configuration.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// Name is the configuration file gsh looks for when given a
// directory.
const Name = "config.yaml"

type Config struct {
	// Prompt is a PS1-style template: \u user, \h host, \w working
	// directory, \$ exit-status indicator.
	Prompt string `json:"prompt" validate:"required"`

	// HistoryFile backs readline's editing history. A leading ~ is
	// expanded against the user's home directory.
	HistoryFile string `json:"history_file"`

	// HistorySize caps the in-session history kept for the history
	// builtin.
	HistorySize int `json:"history_size" validate:"gte=0"`

	// RCFile is evaluated line by line at startup and rewritten when
	// aliases or functions change.
	RCFile string `json:"rc_file"`

	// Aliases are applied before the rc file runs.
	Aliases map[string]string `json:"aliases"`
}

// Validate the configuration for basic semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	return validate.Struct(c)
}

// Default returns the built-in configuration.
func Default() *Config {
	var out Config
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Load reads the configuration at path, which may name either the
// file itself or a directory containing it. A missing file yields the
// built-in defaults; a malformed or invalid one is an error.
func Load(fs afero.Fs, path string) (*Config, error) {
	if ok, err := afero.IsDir(fs, path); err == nil && ok {
		path = filepath.Join(path, Name)
	}

	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	out := Default()
	if err := yaml.UnmarshalStrict(data, out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// ExpandHome substitutes a leading ~ in p with home.
func ExpandHome(p, home string) string {
	if p == "~" {
		return home
	}
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		return filepath.Join(home, rest)
	}
	return p
}
