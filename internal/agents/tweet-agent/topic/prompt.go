package topic

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"techtweets/internal/agents/tweet-agent/segment"
)

// PromptData is what prompt templates see.
type PromptData struct {
	Name          string
	Hints         []string
	Mode          segment.Mode
	MaxPostLength int
	MaxHashtags   int
	MinPosts      int
	MaxPosts      int
}

// BuildPrompt renders the prompt for t. It is pure: same topic and mode,
// same prompt.
func BuildPrompt(t Topic, mode segment.Mode, opts segment.Options) (string, error) {
	body := strings.TrimSpace(t.Template)
	if body == "" {
		name := "assets/thread.tmpl"
		if mode == segment.ModeSingle {
			name = "assets/single.tmpl"
		}
		b, err := assets.ReadFile(name)
		if err != nil {
			return "", err
		}
		body = string(b)
	}

	tmpl, err := template.New(t.Name).Option("missingkey=error").Parse(body)
	if err != nil {
		return "", fmt.Errorf("topic %q: parse template: %w", t.Name, err)
	}

	d := segment.New(opts).Options()

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, PromptData{
		Name:          t.Name,
		Hints:         t.Hints,
		Mode:          mode,
		MaxPostLength: d.MaxPostLength,
		MaxHashtags:   d.MaxHashtags,
		MinPosts:      d.MinPosts,
		MaxPosts:      d.MaxPosts,
	})
	if err != nil {
		return "", fmt.Errorf("topic %q: render template: %w", t.Name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
