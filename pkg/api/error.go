package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 64 * 1024

type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "http status error"
	}
	return fmt.Sprintf("status=%d body=%s", e.StatusCode, e.Body)
}

// StatusErrorFromResponse reads a bounded body and returns *HTTPStatusError for non-2xx.
func StatusErrorFromResponse(resp *http.Response) error {
	if resp == nil {
		return fmt.Errorf("nil response")
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &HTTPStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
