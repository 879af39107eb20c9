// Package config loads application settings into a struct.
//
// Sources are layered, later ones winning:
//
//  1. values already set on the destination struct (defaults),
//  2. dotenv files, which only populate the process environment,
//  3. an optional YAML file,
//  4. environment variables with the configured prefix, where "__" marks
//     nesting: APP_HTTP__ADDR sets http.addr.
//
// Fields are matched by their koanf tags and validated with their validate
// tags after loading.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Errors.
var (
	ErrLoad     = errors.New("config: failed to load")
	ErrValidate = errors.New("config: validation failed")
)

// Option configures Load.
type Option func(*loader)

type loader struct {
	envFiles  []string
	yamlFile  string
	envPrefix string
}

// WithEnvFiles loads dotenv files into the environment. Missing files are
// skipped and variables already set are left alone.
func WithEnvFiles(paths ...string) Option {
	return func(l *loader) {
		l.envFiles = append(l.envFiles, paths...)
	}
}

// WithYAML reads path if it exists.
func WithYAML(path string) Option {
	return func(l *loader) {
		l.yamlFile = path
	}
}

// WithEnvPrefix sets the environment prefix. Default "APP_".
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		l.envPrefix = prefix
	}
}

// Load fills dst, a pointer to a struct, from the configured sources.
func Load(dst any, opts ...Option) error {
	l := &loader{envPrefix: "APP_"}
	for _, opt := range opts {
		opt(l)
	}

	for _, path := range l.envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Join(ErrLoad, fmt.Errorf("dotenv %s: %w", path, err))
		}
	}

	k := koanf.New(".")

	if l.yamlFile != "" {
		if _, err := os.Stat(l.yamlFile); err == nil {
			if err := k.Load(file.Provider(l.yamlFile), yaml.Parser()); err != nil {
				return errors.Join(ErrLoad, fmt.Errorf("yaml %s: %w", l.yamlFile, err))
			}
		}
	}

	prefix := l.envPrefix
	err := k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, prefix), "__", "."))
	}), nil)
	if err != nil {
		return errors.Join(ErrLoad, fmt.Errorf("env: %w", err))
	}

	if err := k.Unmarshal("", dst); err != nil {
		return errors.Join(ErrLoad, err)
	}

	if err := validator.New().Struct(dst); err != nil {
		return errors.Join(ErrValidate, err)
	}
	return nil
}
