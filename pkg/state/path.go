package state

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// AppName is the directory name used under the user cache dir.
const AppName = "techtweets"

// BaseDir returns the base directory for run artifacts.
//
// Default:
// - system user cache dir + "/techtweets"
func BaseDir() string {
	if d := strings.TrimSpace(userCacheDir()); d != "" {
		return filepath.Join(d, AppName)
	}
	return filepath.Join(os.TempDir(), AppName)
}

func ReportDir() string {
	return filepath.Join(BaseDir(), "reports")
}

// ReportFile is the default report location for a run id.
func ReportFile(runID string) string {
	id := strings.TrimSpace(runID)
	if id == "" {
		id = "run"
	}
	return filepath.Join(ReportDir(), "report-"+id+".json")
}

func userCacheDir() string {
	if d, err := os.UserCacheDir(); err == nil && strings.TrimSpace(d) != "" {
		return d
	}

	switch runtime.GOOS {
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, "Library", "Caches")
		}
	case "windows":
		if d := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); d != "" {
			return d
		}
	default:
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, ".cache")
		}
	}
	return ""
}
