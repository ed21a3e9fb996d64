package cli

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pressmark/parsecfg/pkg"
)

// baseDefaults is the base name of the flag defaults file, written in the
// same configuration syntax the tool renders.
const baseDefaults = "defaults.cfg"

// defaultDirMode is the permission mode for created runtime directories.
var defaultDirMode os.FileMode = 0o700

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(
	func() string {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir, err = os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(dir, ".config")
			} else {
				var err error
				dir, err = os.Getwd()
				if err != nil {
					dir = "."
				}
			}
		}

		return filepath.Join(dir, pkg.Name)
	},
)

// defaultsPath returns the absolute path to the flag defaults file.
func defaultsPath() string {
	return filepath.Join(configDir(), baseDefaults)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	// Create base config directory
	err := os.MkdirAll(configDir(), defaultDirMode)
	if err != nil {
		return err
	}

	// Create base cache directory
	err = os.MkdirAll(pkg.CacheDir(), defaultDirMode)
	if err != nil {
		return err
	}

	return nil
}
