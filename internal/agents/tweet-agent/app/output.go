package app

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"techtweets/internal/agents/tweet-agent/agent"
	"techtweets/internal/agents/tweet-agent/segment"
	"techtweets/internal/agents/tweet-agent/topic"
)

type resultJSON struct {
	Topic string       `json:"topic"`
	Mode  segment.Mode `json:"mode"`
	Posts []string     `json:"posts"`
	IDs   []string     `json:"ids,omitempty"`
	URL   string       `json:"url,omitempty"`
}

func writeResult(w io.Writer, format string, res agent.Result) error {
	if format == outputJSON {
		out := resultJSON{
			Topic: res.Topic,
			Mode:  res.Mode,
			Posts: res.Posts,
			URL:   res.URL,
		}
		if res.Thread != nil {
			out.IDs = res.Thread.IDs
		}
		return writeJSON(w, out)
	}

	n := len(res.Posts)
	for i, p := range res.Posts {
		if _, err := fmt.Fprintf(w, "[%d/%d] (%d) %s\n", i+1, n, segment.Length(p), p); err != nil {
			return err
		}
	}
	if res.URL != "" {
		if _, err := fmt.Fprintf(w, "published: %s\n", res.URL); err != nil {
			return err
		}
	}
	return nil
}

func writeTopics(w io.Writer, format string, topics []topic.Topic) error {
	if format == outputJSON {
		return writeJSON(w, topics)
	}
	for _, t := range topics {
		if _, err := fmt.Fprintln(w, t.Name); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Report is the JSON artifact written by --report.
type Report struct {
	RunID      string       `json:"run_id"`
	Topic      string       `json:"topic"`
	Mode       segment.Mode `json:"mode"`
	DryRun     bool         `json:"dry_run"`
	Attempts   int          `json:"attempts"`
	Posts      []string     `json:"posts"`
	TweetIDs   []string     `json:"tweet_ids,omitempty"`
	URL        string       `json:"url,omitempty"`
	State      agent.State  `json:"state"`
	Stage      string       `json:"stage,omitempty"`
	Error      string       `json:"error,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

func newReport(res agent.Result, runErr error, started time.Time) Report {
	r := Report{
		RunID:      res.RunID,
		Topic:      res.Topic,
		Mode:       res.Mode,
		DryRun:     res.DryRun,
		Attempts:   res.Attempts,
		Posts:      res.Posts,
		URL:        res.URL,
		State:      res.State,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	if res.Thread != nil {
		r.TweetIDs = res.Thread.IDs
	}
	if runErr != nil {
		r.Stage = agent.Stage(runErr)
		r.Error = runErr.Error()
	}
	return r
}
