package runtime

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"

	"techtweets/pkg/logging"
)

// DotEnvDisableVar turns off .env discovery when set to 0/false/off/no.
const DotEnvDisableVar = "TWEET_AGENT_DOTENV"

// LoadDotEnv tries to load env vars from:
// - .env.local, .env (cwd)
// - .env.local, .env in every directory from the caller file up to the filesystem root
//
// It only sets vars that are not already set, matching godotenv's behavior.
func LoadDotEnv(log logging.Entry) error {
	return LoadDotEnvFromCaller(log, 2)
}

// LoadDotEnvFromCaller is the same as LoadDotEnv, but allows specifying how many
// stack frames to skip when locating the caller file.
func LoadDotEnvFromCaller(log logging.Entry, callerSkip int) error {
	if IsDotEnvDisabled() {
		return nil
	}

	paths := []string{".env.local", ".env"}
	if _, file, _, ok := runtime.Caller(callerSkip); ok {
		paths = append(paths, DotEnvCandidates(filepath.Dir(file))...)
	}
	return LoadDotEnvFiles(log, paths)
}

// DotEnvCandidates walks up from dir, so running from any subdir
// (e.g. internal/agents/tweet-agent/app) still finds the repo root files.
func DotEnvCandidates(dir string) []string {
	var paths []string
	for d := dir; ; {
		paths = append(paths, filepath.Join(d, ".env.local"), filepath.Join(d, ".env"))
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return paths
}

// LoadDotEnvFiles loads every existing file in paths, in order, skipping duplicates.
func LoadDotEnvFiles(log logging.Entry, paths []string) error {
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}

		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
		if log != nil {
			log.WithField("path", p).Debug("loaded env file")
		}
	}
	return nil
}

func IsDotEnvDisabled() bool {
	v := strings.TrimSpace(os.Getenv(DotEnvDisableVar))
	if v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "0", "false", "off", "no":
		return true
	default:
		return false
	}
}
