package runtime

import (
	"fmt"
	"net/url"
	"strings"
)

func ValidateHTTPURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u == nil {
		return fmt.Errorf("invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must be http/https")
	}
	if strings.TrimSpace(u.Host) == "" {
		return fmt.Errorf("url missing host")
	}
	return nil
}

// NormalizeBaseURL validates raw and strips trailing slashes. Blank yields def.
func NormalizeBaseURL(raw, def string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		s = def
	}
	if err := ValidateHTTPURL(s); err != nil {
		return "", fmt.Errorf("%w: %q", err, s)
	}
	return strings.TrimRight(s, "/"), nil
}
