// Package segment turns raw generated text into tweet-sized posts.
//
// Policy, applied uniformly per run:
//   - split on blank lines; text without blank lines is split per line
//   - drop noise lines, then clean scaffolding with an ordered rule list until stable
//   - overlong units are resplit on sentence boundaries and greedily packed;
//     a single overlong sentence is truncated with "..."
//   - hashtags beyond the cap are removed in place, the first ones are kept
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	MaxPostLength = 280
	MaxHashtags   = 2
	MinPosts      = 3
	MaxPosts      = 5

	Ellipsis = "..."

	maxCleanPasses = 8
)

// Post is one tweet-sized unit of text.
type Post = string

type Options struct {
	MaxPostLength int
	MaxHashtags   int
	MinPosts      int
	MaxPosts      int
}

func (o Options) withDefaults() Options {
	out := o
	if out.MaxPostLength <= len(Ellipsis) {
		out.MaxPostLength = MaxPostLength
	}
	if out.MaxHashtags <= 0 {
		out.MaxHashtags = MaxHashtags
	}
	if out.MinPosts <= 0 {
		out.MinPosts = MinPosts
	}
	if out.MaxPosts <= 0 {
		out.MaxPosts = MaxPosts
	}
	if out.MaxPosts < out.MinPosts {
		out.MaxPosts = out.MinPosts
	}
	return out
}

// DefaultOptions returns the X limits: 280 characters, 2 hashtags, 3-5 posts.
func DefaultOptions() Options {
	return Options{
		MaxPostLength: MaxPostLength,
		MaxHashtags:   MaxHashtags,
		MinPosts:      MinPosts,
		MaxPosts:      MaxPosts,
	}
}

// InsufficientContentError means segmentation produced fewer than Min posts.
// Attempts is filled in by callers that retry.
type InsufficientContentError struct {
	Got      int
	Min      int
	Attempts int
}

func (e *InsufficientContentError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("insufficient content: got %d posts, need %d (after %d attempts)", e.Got, e.Min, e.Attempts)
	}
	return fmt.Sprintf("insufficient content: got %d posts, need %d", e.Got, e.Min)
}

// ErrNoContent is returned by Single when nothing survives cleaning.
var ErrNoContent = fmt.Errorf("no content left after cleaning")

type Segmenter struct {
	opts  Options
	noise []NoiseRule
	clean []CleanRule
}

func New(opts Options) *Segmenter {
	return &Segmenter{
		opts:  opts.withDefaults(),
		noise: DefaultNoiseRules(),
		clean: DefaultCleanRules(),
	}
}

func (s *Segmenter) Options() Options { return s.opts }

// Segment runs the thread pipeline. On *InsufficientContentError the posts
// that did survive are still returned.
func (s *Segmenter) Segment(raw string) ([]Post, error) {
	var posts []Post
	for _, unit := range SplitUnits(raw) {
		cleaned := s.CleanUnit(unit)
		if cleaned == "" {
			continue
		}
		for _, part := range s.enforceLength(cleaned) {
			part = CapHashtags(part, s.opts.MaxHashtags)
			if part == "" || Length(part) > s.opts.MaxPostLength {
				continue
			}
			posts = append(posts, part)
		}
	}

	if len(posts) < s.opts.MinPosts {
		return posts, &InsufficientContentError{Got: len(posts), Min: s.opts.MinPosts}
	}
	if len(posts) > s.opts.MaxPosts {
		posts = posts[:s.opts.MaxPosts]
	}
	return posts, nil
}

// Single cleans the whole text as one post, truncating when needed.
func (s *Segmenter) Single(raw string) (Post, error) {
	var kept []string
	for _, unit := range SplitUnits(raw) {
		if cleaned := s.CleanUnit(unit); cleaned != "" {
			kept = append(kept, cleaned)
		}
	}
	if len(kept) == 0 {
		return "", ErrNoContent
	}
	post := CapHashtags(strings.Join(kept, "\n\n"), s.opts.MaxHashtags)
	post = Truncate(post, s.opts.MaxPostLength)
	if post == "" {
		return "", ErrNoContent
	}
	return post, nil
}

// SplitUnits splits raw on blank lines. When there are none but the text has
// several lines, every non-empty line becomes a unit.
func SplitUnits(raw string) []string {
	raw = normalize(raw)
	if raw == "" {
		return nil
	}

	paras := blankLinesRe.Split(raw, -1)
	if len(paras) == 1 {
		lines := nonEmptyLines(raw)
		if len(lines) > 1 {
			return lines
		}
	}

	out := make([]string, 0, len(paras))
	for _, p := range paras {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanUnit removes noise lines and scaffolding from one unit. It repeats
// until the unit stops changing, so CleanUnit(CleanUnit(u)) == CleanUnit(u).
func (s *Segmenter) CleanUnit(unit string) string {
	lines := strings.Split(normalize(unit), "\n")
	for pass := 0; pass < maxCleanPasses; pass++ {
		next := s.cleanLines(lines)
		if equalLines(next, lines) {
			break
		}
		lines = next
	}
	return strings.Join(lines, "\n")
}

func (s *Segmenter) cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if s.isNoise(line) {
			continue
		}
		first := len(out) == 0
		line = strings.TrimSpace(line)
		for _, r := range s.clean {
			if r.FirstLineOnly && !first {
				continue
			}
			line = strings.TrimSpace(r.Apply(line))
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (s *Segmenter) isNoise(line string) bool {
	for _, r := range s.noise {
		if r.Match(line) {
			return true
		}
	}
	return false
}

func (s *Segmenter) enforceLength(unit string) []string {
	limit := s.opts.MaxPostLength
	if Length(unit) <= limit {
		return []string{unit}
	}

	var out []string
	acc := ""
	flush := func() {
		if acc != "" {
			out = append(out, acc)
			acc = ""
		}
	}
	for _, sentence := range SplitSentences(unit) {
		switch {
		case Length(sentence) > limit:
			flush()
			out = append(out, Truncate(sentence, limit))
		case acc == "":
			acc = sentence
		case Length(acc)+1+Length(sentence) <= limit:
			acc += " " + sentence
		default:
			flush()
			acc = sentence
		}
	}
	flush()
	return out
}

var sentenceEndRe = regexp.MustCompile(`[.!?…]+["'”’)\]]*\s+|\n+`)

// SplitSentences cuts s after sentence-terminal punctuation followed by
// whitespace, and at line breaks. Punctuation stays with its sentence.
func SplitSentences(s string) []string {
	var out []string
	start := 0
	for _, m := range sentenceEndRe.FindAllStringIndex(s, -1) {
		if part := strings.TrimSpace(s[start:m[1]]); part != "" {
			out = append(out, part)
		}
		start = m[1]
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		out = append(out, part)
	}
	return out
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(norm.NFC.String(s))
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
