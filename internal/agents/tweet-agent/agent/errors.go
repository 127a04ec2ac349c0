package agent

import (
	"errors"
	"fmt"

	"techtweets/internal/agents/tweet-agent/config"
	"techtweets/internal/agents/tweet-agent/segment"
	"techtweets/pkg/api/twitter"
)

// GenerationError wraps a failed call to the text generator. It is never retried.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate with %s: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

const (
	StageConfig   = "config"
	StageGenerate = "generate"
	StageSegment  = "segment"
	StagePublish  = "publish"
	StageUnknown  = "run"
)

// Stage names the pipeline stage an error came from, for logging.
func Stage(err error) string {
	var (
		ce  *config.ConfigurationError
		ge  *GenerationError
		ice *segment.InsufficientContentError
		pe  *twitter.PublishError
	)
	switch {
	case errors.As(err, &ce):
		return StageConfig
	case errors.As(err, &ge):
		return StageGenerate
	case errors.As(err, &ice):
		return StageSegment
	case errors.As(err, &pe):
		return StagePublish
	default:
		return StageUnknown
	}
}
