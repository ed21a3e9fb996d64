package pkg

import (
	"os"
	"path/filepath"
	"sync"
)

// CacheDir returns the directory for transient files such as REPL history
// and profiler output. It falls back to a dot directory below the home
// directory, then to the working directory, when the platform cache
// location is unavailable.
var CacheDir = sync.OnceValue(func() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(dir, ".cache")
		} else {
			dir, err = os.Getwd()
			if err != nil {
				dir = "."
			}
		}
	}

	return filepath.Join(dir, Name)
})
