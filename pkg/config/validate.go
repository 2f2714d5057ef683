package config

import (
	"strings"

	"github.com/arthur-debert/envboot/pkg/errors"
)

// Validate rejects configurations missing values the steps cannot run without
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"hub.org", c.Hub.Org},
		{"hub.package", c.Hub.Package},
		{"hub.branch", c.Hub.Branch},
		{"hub.raw_base_url", c.Hub.RawBaseURL},
		{"hub.clone_base_url", c.Hub.CloneBaseURL},
		{"artifacts.config", c.Artifacts.Config},
		{"artifacts.credentials", c.Artifacts.Credentials},
		{"versions.python", c.Versions.Python},
		{"versions.bentoml", c.Versions.BentoML},
		{"versions.base_env_prefix", c.Versions.BaseEnvPrefix},
		{"image.org", c.Image.Org},
		{"image.name", c.Image.Name},
		{"image.base", c.Image.Base},
		{"image.workdir", c.Image.Workdir},
		{"toolkit.package", c.Toolkit.Package},
		{"toolkit.interpreter", c.Toolkit.Interpreter},
		{"installers.package_manager", c.Installers.PackageManager},
		{"installers.version_control", c.Installers.VersionControl},
		{"ledger.file", c.Ledger.File},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return errors.Newf(errors.ErrConfigInvalid, "missing required config values: %s", strings.Join(missing, ", ")).
			WithDetail("keys", missing)
	}

	if strings.ContainsAny(c.Ledger.File, "/\\") {
		return errors.Newf(errors.ErrConfigInvalid, "ledger.file must be a file name, got %q", c.Ledger.File)
	}
	for _, name := range []string{c.Artifacts.Config, c.Artifacts.Credentials} {
		if strings.ContainsAny(name, "/\\") {
			return errors.Newf(errors.ErrConfigInvalid, "artifact name must be a file name, got %q", name)
		}
	}
	if len(c.Development.Markers) == 0 {
		return errors.New(errors.ErrConfigInvalid, "development.markers must name at least one file")
	}
	return nil
}
