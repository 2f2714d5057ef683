package config

import (
	"github.com/arthur-debert/envboot/pkg/errors"
	gotoml "github.com/pelletier/go-toml/v2"
)

// Render serializes the effective configuration as TOML
func Render(cfg *Config) (string, error) {
	out, err := gotoml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return string(out), nil
}
