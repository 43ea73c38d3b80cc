// Package config loads clove settings from TOML files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode/utf8"

	"github.com/naoina/toml"

	"github.com/chazu/clove/pkg/format"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Indent controls the layout of translated output.
type Indent struct {
	Char  string // a single character, usually " " or "\t"
	Width int
}

// Output controls where translations are written.
type Output struct {
	Dir       string `toml:",omitempty"`
	GoPackage string `toml:",omitempty"` // when set, translations are wrapped in Go source
}

// Cache controls the persistent translation cache.
type Cache struct {
	Path string `toml:",omitempty"` // empty disables the cache
	Size int
}

// Service controls the translation server.
type Service struct {
	Addr string
}

// Config is the whole configuration file.
type Config struct {
	Indent  Indent
	Output  Output
	Cache   Cache
	Service Service
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		Indent:  Indent{Char: string(format.DefaultIndentChar), Width: format.DefaultIndentWidth},
		Cache:   Cache{Size: 256},
		Service: Service{Addr: "127.0.0.1:7450"},
	}
}

// Load reads file over the defaults.
func Load(file string) (Config, error) {
	cfg := Defaults()

	f, err := os.Open(file)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Indent.Char) != 1 {
		return fmt.Errorf("Indent.Char must be a single character, got %q", c.Indent.Char)
	}
	if c.Indent.Width < 0 {
		return fmt.Errorf("Indent.Width must not be negative, got %d", c.Indent.Width)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("Cache.Size must not be negative, got %d", c.Cache.Size)
	}
	return nil
}

// IndentRune returns the indentation character.
func (c Config) IndentRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Indent.Char)
	return r
}

// Marshal encodes the configuration as TOML.
func Marshal(c Config) ([]byte, error) {
	return tomlSettings.Marshal(&c)
}
