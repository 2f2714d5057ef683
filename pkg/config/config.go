package config

import (
	"fmt"
	"strings"
)

// Config is the complete envboot configuration
type Config struct {
	Hub         Hub         `koanf:"hub" toml:"hub"`
	Artifacts   Artifacts   `koanf:"artifacts" toml:"artifacts"`
	Development Development `koanf:"development" toml:"development"`
	Versions    Versions    `koanf:"versions" toml:"versions"`
	Image       Image       `koanf:"image" toml:"image"`
	Toolkit     Toolkit     `koanf:"toolkit" toml:"toolkit"`
	Installers  Installers  `koanf:"installers" toml:"installers"`
	Secrets     Secrets     `koanf:"secrets" toml:"secrets"`
	Ledger      Ledger      `koanf:"ledger" toml:"ledger"`
	Run         Run         `koanf:"run" toml:"run"`
}

// Hub addresses the remote source host of the orchestrated package
type Hub struct {
	Org          string `koanf:"org" toml:"org"`
	Package      string `koanf:"package" toml:"package"`
	Branch       string `koanf:"branch" toml:"branch"`
	RawBaseURL   string `koanf:"raw_base_url" toml:"raw_base_url"`
	CloneBaseURL string `koanf:"clone_base_url" toml:"clone_base_url"`
}

// Artifacts names the configuration files resolved into the data directory
type Artifacts struct {
	Config      string `koanf:"config" toml:"config"`
	Credentials string `koanf:"credentials" toml:"credentials"`
}

// Development controls detection of a local checkout
type Development struct {
	Path    string   `koanf:"path" toml:"path"`
	Markers []string `koanf:"markers" toml:"markers"`
}

// Versions pins the versions the base environment and image are built from
type Versions struct {
	Python        string `koanf:"python" toml:"python"`
	BentoML       string `koanf:"bentoml" toml:"bentoml"`
	BaseEnvPrefix string `koanf:"base_env_prefix" toml:"base_env_prefix"`
}

// Image describes the server container image
type Image struct {
	Org        string `koanf:"org" toml:"org"`
	Name       string `koanf:"name" toml:"name"`
	Base       string `koanf:"base" toml:"base"`
	Maintainer string `koanf:"maintainer" toml:"maintainer"`
	Workdir    string `koanf:"workdir" toml:"workdir"`
}

// Toolkit is the domain package installed into environments and images
type Toolkit struct {
	Package     string `koanf:"package" toml:"package"`
	Channel     string `koanf:"channel" toml:"channel"`
	Interpreter string `koanf:"interpreter" toml:"interpreter"`
}

// Installers holds the shell command lines that install missing tools
type Installers struct {
	PackageManager string `koanf:"package_manager" toml:"package_manager"`
	VersionControl string `koanf:"version_control" toml:"version_control"`
}

// Secrets addresses the remote secrets document
type Secrets struct {
	Org      string `koanf:"org" toml:"org"`
	Repo     string `koanf:"repo" toml:"repo"`
	File     string `koanf:"file" toml:"file"`
	TokenEnv string `koanf:"token_env" toml:"token_env"`
}

// Ledger configures the completion ledger.
// Strict records a task only after it is found present or its action succeeds.
type Ledger struct {
	File   string `koanf:"file" toml:"file"`
	Strict bool   `koanf:"strict" toml:"strict"`
}

// Run holds execution settings
type Run struct {
	Quiet          bool   `koanf:"quiet" toml:"quiet"`
	SecondaryEntry string `koanf:"secondary_entry" toml:"secondary_entry"`
}

// PythonTag returns the short interpreter tag, "3.7" -> "py37"
func (c *Config) PythonTag() string {
	parts := strings.SplitN(c.Versions.Python, ".", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return "py" + strings.Join(parts, "")
}

// BaseEnvName is the name of the isolated base environment
func (c *Config) BaseEnvName() string {
	return fmt.Sprintf("%s-bentoml-%s-%s", c.Versions.BaseEnvPrefix, c.Versions.BentoML, c.PythonTag())
}

// ImageTag is the tag of the server image
func (c *Config) ImageTag() string {
	return fmt.Sprintf("%s-%s", c.Versions.BentoML, c.PythonTag())
}

// ImageRef returns the full org/name:tag reference of the server image
func (c *Config) ImageRef() string {
	return fmt.Sprintf("%s/%s:%s", c.Image.Org, c.Image.Name, c.ImageTag())
}
