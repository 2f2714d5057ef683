// Package config loads envboot's configuration.
//
// Layers, lowest to highest precedence:
//
//  1. embedded/defaults.toml
//  2. the user file: --config, or config.toml / config.yaml in the config dir
//  3. environment variables, ENVBOOT_SECTION__KEY (ENVBOOT_LEDGER__STRICT=true)
//  4. overrides set by command line flags
//
// Derived names such as the base environment name and the image tag are
// methods on Config so every component computes them the same way.
package config
