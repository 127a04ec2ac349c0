package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"techtweets/internal/agents/tweet-agent/config"
	"techtweets/internal/agents/tweet-agent/segment"
	"techtweets/internal/agents/tweet-agent/topic"
	"techtweets/pkg/api/twitter"
	"techtweets/pkg/logging"
	"techtweets/pkg/x/llm"
)

const (
	DefaultMaxAttempts   = config.DefaultMaxAttempts
	logContentPreviewLen = 80
)

// Publisher posts an ordered thread. *twitter.Client implements it.
type Publisher interface {
	PublishThread(ctx context.Context, posts []string) (twitter.ThreadHandle, error)
}

// State is where a run is in its lifecycle.
type State string

const (
	StateIdle                State = "idle"
	StateGenerating          State = "generating"
	StateSegmenting          State = "segmenting"
	StateInsufficientContent State = "insufficient_content"
	StatePublishing          State = "publishing"
	StateDone                State = "done"
)

type Deps struct {
	Selector  *topic.Selector
	Generator llm.Generator
	// Publisher may be nil for dry runs.
	Publisher Publisher
	Log       logging.Entry
	// Handle is the account name used to build the thread URL.
	Handle string
}

type Options struct {
	Mode        segment.Mode
	DryRun      bool
	MaxAttempts int
	// TopicName forces a topic instead of a random pick.
	TopicName  string
	Generation llm.GenerationConfig
	Segment    segment.Options
}

type Result struct {
	RunID    string                `json:"run_id"`
	Topic    string                `json:"topic"`
	Mode     segment.Mode          `json:"mode"`
	DryRun   bool                  `json:"dry_run"`
	Attempts int                   `json:"attempts"`
	Posts    []string              `json:"posts"`
	Thread   *twitter.ThreadHandle `json:"thread,omitempty"`
	URL      string                `json:"url,omitempty"`
	// State is the last lifecycle state the run reached.
	State    State                 `json:"state"`
}

type Runner struct {
	selector  *topic.Selector
	generator llm.Generator
	publisher Publisher
	log       logging.Entry
	handle    string
}

func NewRunner(d Deps) (*Runner, error) {
	if d.Selector == nil {
		return nil, fmt.Errorf("topic selector is required")
	}
	if d.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	log := d.Log
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{
		selector:  d.Selector,
		generator: d.Generator,
		publisher: d.Publisher,
		log:       log,
		handle:    d.Handle,
	}, nil
}

// Run performs one generate → segment → publish cycle. Insufficient content
// is retried up to MaxAttempts generations; every other failure ends the run.
func (r *Runner) Run(ctx context.Context, opts Options) (Result, error) {
	mode := opts.Mode
	if mode == "" {
		mode = segment.ModeThread
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	genCfg := opts.Generation
	if genCfg.MaxOutputTokens <= 0 {
		genCfg = llm.DefaultGenerationConfig()
	}
	if !opts.DryRun && r.publisher == nil {
		return Result{}, fmt.Errorf("publisher is required unless dry-run")
	}

	var (
		t   topic.Topic
		err error
	)
	if opts.TopicName != "" {
		t, err = r.selector.Pick(opts.TopicName)
		if err != nil {
			return Result{}, &config.ConfigurationError{Reason: err.Error()}
		}
	} else {
		t = r.selector.Select()
	}

	res := Result{
		RunID:  uuid.NewString(),
		Topic:  t.Name,
		Mode:   mode,
		DryRun: opts.DryRun,
		State:  StateIdle,
	}
	log := r.log.WithFields(logging.Fields{
		"run_id": res.RunID,
		"topic":  t.Name,
		"mode":   mode,
	})
	seg := segment.New(opts.Segment)

	posts, err := r.generatePosts(ctx, log, &res, t, seg, genCfg, maxAttempts)
	res.Posts = posts
	if err != nil {
		return res, err
	}

	if opts.DryRun {
		res.State = StateDone
		log.WithField("posts", len(posts)).Info("dry run: not publishing")
		return res, nil
	}

	res.State = StatePublishing
	log.WithField("posts", len(posts)).Info("publishing")
	handle, err := r.publisher.PublishThread(ctx, posts)
	if len(handle.IDs) > 0 {
		res.Thread = &handle
		res.URL = handle.URL(r.handle)
	}
	if err != nil {
		return res, err
	}

	res.State = StateDone
	log.WithFields(logging.Fields{"root_id": handle.RootID(), "url": res.URL}).Info("published")
	return res, nil
}

// generatePosts records progress in res.Attempts and res.State. A reply cut
// off at the token limit counts as insufficient content and is regenerated.
func (r *Runner) generatePosts(
	ctx context.Context,
	log logging.Entry,
	res *Result,
	t topic.Topic,
	seg *segment.Segmenter,
	genCfg llm.GenerationConfig,
	maxAttempts int,
) ([]string, error) {
	var last *segment.InsufficientContentError
	var lastPosts []string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return lastPosts, err
		}
		res.Attempts = attempt
		alog := log.WithField("attempt", attempt)

		prompt, err := topic.BuildPrompt(t, res.Mode, seg.Options())
		if err != nil {
			return nil, err
		}

		res.State = StateGenerating
		alog.WithField("generator", r.generator.Name()).Debug("generating")
		raw, err := r.generator.Generate(ctx, llm.GenerationRequest{Prompt: prompt, Config: genCfg})
		if errors.Is(err, llm.ErrTruncated) {
			res.State = StateInsufficientContent
			last = &segment.InsufficientContentError{Got: 0, Min: minPosts(seg, res.Mode)}
			alog.WithError(err).Warn("generation truncated, regenerating")
			continue
		}
		if err != nil {
			return nil, &GenerationError{Provider: r.generator.Name(), Err: err}
		}
		alog.WithField("preview", PreviewString(raw, logContentPreviewLen)).Debug("generated")

		res.State = StateSegmenting
		posts, err := segmentRaw(seg, res.Mode, raw)
		if err == nil {
			return posts, nil
		}
		if !errors.As(err, &last) {
			return nil, err
		}
		res.State = StateInsufficientContent
		lastPosts = posts
		alog.WithFields(logging.Fields{"got": last.Got, "min": last.Min}).Warn("insufficient content, regenerating")
	}

	return lastPosts, &segment.InsufficientContentError{Got: last.Got, Min: last.Min, Attempts: maxAttempts}
}

func minPosts(seg *segment.Segmenter, mode segment.Mode) int {
	if mode == segment.ModeSingle {
		return 1
	}
	return seg.Options().MinPosts
}

func segmentRaw(seg *segment.Segmenter, mode segment.Mode, raw string) ([]string, error) {
	if mode == segment.ModeSingle {
		post, err := seg.Single(raw)
		if errors.Is(err, segment.ErrNoContent) {
			return nil, &segment.InsufficientContentError{Got: 0, Min: 1}
		}
		if err != nil {
			return nil, err
		}
		return []string{post}, nil
	}
	return seg.Segment(raw)
}
