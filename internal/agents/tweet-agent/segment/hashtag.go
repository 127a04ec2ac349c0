package segment

import (
	"regexp"
	"strings"
)

// A hashtag is '#' plus word characters, not glued to a preceding word ("C#" and "a#b" don't count).
var hashtagRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_&#/])(#[\p{L}\p{N}_]+)`)

// Hashtags returns the hashtag tokens of s in order.
func Hashtags(s string) []string {
	var out []string
	for _, loc := range hashtagLocs(s) {
		out = append(out, s[loc[0]:loc[1]])
	}
	return out
}

func CountHashtags(s string) int {
	return len(hashtagLocs(s))
}

// CapHashtags keeps the first limit hashtags where they are and removes the rest.
func CapHashtags(s string, limit int) string {
	locs := hashtagLocs(s)
	if len(locs) <= limit {
		return s
	}

	var b strings.Builder
	prev := 0
	for _, loc := range locs[limit:] {
		b.WriteString(s[prev:loc[0]])
		prev = loc[1]
	}
	b.WriteString(s[prev:])

	lines := strings.Split(b.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// hashtagLocs returns [start,end) of each hashtag token (the '#...' part only).
func hashtagLocs(s string) [][2]int {
	var out [][2]int
	for _, m := range hashtagRe.FindAllStringSubmatchIndex(s, -1) {
		out = append(out, [2]int{m[2], m[3]})
	}
	return out
}
