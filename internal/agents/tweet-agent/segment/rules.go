package segment

import (
	"regexp"
	"strings"
)

// NoiseRule drops a whole line when Pattern matches its normalized form.
type NoiseRule struct {
	Name    string
	Pattern *regexp.Regexp
}

func (r NoiseRule) Match(line string) bool {
	return r.Pattern.MatchString(noiseKey(line))
}

// CleanRule rewrites a line. Rules run in slice order; FirstLineOnly rules
// only touch the first surviving line of a unit.
type CleanRule struct {
	Name          string
	Pattern       *regexp.Regexp
	Replace       string
	FirstLineOnly bool
}

func (r CleanRule) Apply(line string) string {
	return r.Pattern.ReplaceAllString(line, r.Replace)
}

var (
	headingRe    = regexp.MustCompile(`^#{1,6}\s+`)
	codeTicksRe  = regexp.MustCompile("`+")
	spaceRunRe   = regexp.MustCompile(`[ \t\x{00A0}\x{2009}\x{202F}]+`)
	blankLinesRe = regexp.MustCompile(`\n[ \t]*\n\s*`)

	// Markers only count in pairs around a span that starts and ends with a
	// non-space, and never when glued to a word, so **kwargs, a*b and 5 * 3
	// survive. Underscore pairs also need a space inside, which keeps __init__.
	strongEmRe     = pairedRe(`\*\*\*`, `*`)
	boldRe         = pairedRe(`\*\*`, `*`)
	italicRe       = pairedRe(`\*`, `*`)
	strikeRe       = pairedRe(`~~`, `~`)
	underscoreBold = regexp.MustCompile(`(^|[^\p{L}\p{N}_])__([^_\s][^_]*\s[^_]*[^_\s])__($|[^\p{L}\p{N}_])`)
)

const pairedReplace = "${1}${2}${3}"

func pairedRe(marker, ch string) *regexp.Regexp {
	edge := `[^\p{L}\p{N}_` + ch + `]`
	span := `([^` + ch + `\s](?:[^` + ch + `]*[^` + ch + `\s])?)`
	return regexp.MustCompile(`(^|` + edge + `)` + marker + span + marker + `($|` + edge + `)`)
}

func emphasisRules() []CleanRule {
	return []CleanRule{
		{Name: "strong-emphasis", Pattern: strongEmRe, Replace: pairedReplace},
		{Name: "bold", Pattern: boldRe, Replace: pairedReplace},
		{Name: "underscore-bold", Pattern: underscoreBold, Replace: pairedReplace},
		{Name: "italic", Pattern: italicRe, Replace: pairedReplace},
		{Name: "strikethrough", Pattern: strikeRe, Replace: pairedReplace},
		{Name: "code-ticks", Pattern: codeTicksRe},
	}
}

// stripEmphasis removes paired markers until none are left. Adjacent pairs
// share an edge character, so one pass can miss the second of two.
func stripEmphasis(s string) string {
	rules := emphasisRules()
	for pass := 0; pass < maxCleanPasses; pass++ {
		next := s
		for _, r := range rules {
			next = r.Apply(next)
		}
		if next == s {
			break
		}
		s = next
	}
	return s
}

func noiseKey(line string) string {
	s := strings.TrimSpace(line)
	s = headingRe.ReplaceAllString(s, "")
	s = stripEmphasis(s)
	return strings.TrimSpace(s)
}

func DefaultNoiseRules() []NoiseRule {
	return []NoiseRule{
		{Name: "empty", Pattern: regexp.MustCompile(`^$`)},
		{Name: "bare-numbering", Pattern: regexp.MustCompile(`^\(?\d+\s*(?:/\s*\d+)?\s*[.):]?\)?$`)},
		{Name: "bare-label", Pattern: regexp.MustCompile(`(?i)^(?:tweet|post|thread|part)\s*#?\s*(?:\d+\s*(?:/\s*\d+)?)?\s*[:.\-–—]?$`)},
		{Name: "guideline-heading", Pattern: regexp.MustCompile(`(?i)^(?:guidelines?|rules|structure|format|requirements|tone|topic|notes?|hashtags?|thread structure)\s*:?$`)},
		{Name: "preamble", Pattern: regexp.MustCompile(`(?i)^(?:sure|okay|ok|absolutely|certainly|here(?:'|’)?s|here is|here are)\b.*\b(?:thread|tweets?|posts?)\b.*:$`)},
		{Name: "separator", Pattern: regexp.MustCompile(`^[-–—_=*~]{3,}$`)},
		{Name: "thread-emoji", Pattern: regexp.MustCompile(`^(?:🧵|👇|⬇️|⬇)+$`)},
	}
}

func DefaultCleanRules() []CleanRule {
	rules := []CleanRule{{Name: "markdown-heading", Pattern: headingRe}}
	rules = append(rules, emphasisRules()...)
	return append(rules, []CleanRule{
		{Name: "wrapping-quotes", Pattern: regexp.MustCompile(`^["“]([^"“”]*)["”]$`), Replace: "$1"},
		{Name: "thread-counter", Pattern: regexp.MustCompile(`^🧵\s*\d+\s*/\s*\d+\s*`)},
		{Name: "numbered-label", Pattern: regexp.MustCompile(`(?i)^(?:tweet|post|thread|part)\s*#?\s*\d+(?:\s*/\s*\d+\s*[:.)\-–—]?|\s*[:.)\-–—])\s*`)},
		{Name: "label", Pattern: regexp.MustCompile(`(?i)^(?:tweet|post|thread)\s*:\s*`)},
		{Name: "fraction-prefix", Pattern: regexp.MustCompile(`^\(?\d+\s*/\s*\d+\)?[:.)]?\s+`)},
		{Name: "slash-prefix", Pattern: regexp.MustCompile(`^\d+/\s+`)},
		{Name: "ordinal-prefix", Pattern: regexp.MustCompile(`^\d+[.)]\s+`), FirstLineOnly: true},
		{Name: "fraction-suffix", Pattern: regexp.MustCompile(`\s*(?:\(\d+\s*/\s*\d+\)|🧵\s*\d+\s*/\s*\d+)$`)},
		{Name: "spaces", Pattern: spaceRunRe, Replace: " "},
	}...)
}
