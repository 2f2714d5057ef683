package config

import (
	_ "embed"
	"errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultsContent returns the embedded defaults as shipped
func DefaultsContent() string {
	return string(defaultConfig)
}

// defaultsProvider feeds the embedded defaults to koanf as the lowest layer
type defaultsProvider struct{}

func (defaultsProvider) ReadBytes() ([]byte, error) { return defaultConfig, nil }

func (defaultsProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("embedded defaults need a parser")
}
