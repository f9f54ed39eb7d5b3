package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	devserr "github.com/syedafeezu/DevScope/internal/errors"
)

// ConfigFileName is the optional per-project configuration file looked up
// in the project root.
const ConfigFileName = ".devscope.toml"

// Load builds the configuration for a project root: defaults first, then
// the optional .devscope.toml overlay. A missing config file is not an
// error. The returned config always carries an absolute root.
func Load(root string) (*Config, error) {
	cfg := Default()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}
	cfg.Project.Root = absRoot

	path := filepath.Join(absRoot, ConfigFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, devserr.NewConfigError("file", path, err)
	}

	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, devserr.NewConfigError("file", path, err)
	}

	// The overlay may set a relative project root; resolve it against the
	// directory containing the config file.
	if cfg.Project.Root == "" {
		cfg.Project.Root = absRoot
	} else if !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(absRoot, cfg.Project.Root))
	}

	if err := cfg.Validate(); err != nil {
		return nil, devserr.NewConfigError("validate", path, err)
	}
	return cfg, nil
}
