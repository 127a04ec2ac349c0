package segment

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// X weights most scripts below U+1100 and a few punctuation blocks as 1 and
// everything else as 2. An emoji sequence weighs 2 however many code points
// it spans. URLs are not special-cased; prompts ask for no links.
var lightRanges = [][2]rune{
	{0x0000, 0x10FF},
	{0x2000, 0x200D},
	{0x2010, 0x201F},
	{0x2032, 0x2037},
}

const heavyWeight = 2

func runeWeight(r rune) int {
	for _, rg := range lightRanges {
		if r >= rg[0] && r <= rg[1] {
			return 1
		}
	}
	return heavyWeight
}

// isEmojiSequence reports whether a multi-rune grapheme cluster is an emoji
// sequence: ZWJ joins, variation selector 16, keycaps, skin tones, flags, tags.
func isEmojiSequence(cluster []rune) bool {
	if len(cluster) < 2 {
		return false
	}
	regional := 0
	for _, r := range cluster {
		switch {
		case r == 0x200D, r == 0xFE0F, r == 0x20E3:
			return true
		case r >= 0x1F3FB && r <= 0x1F3FF:
			return true
		case r >= 0xE0020 && r <= 0xE007F:
			return true
		case r >= 0x1F1E6 && r <= 0x1F1FF:
			regional++
		}
	}
	return regional == len(cluster)
}

func clusterWeight(cluster []rune) int {
	if isEmojiSequence(cluster) {
		return heavyWeight
	}
	n := 0
	for _, r := range cluster {
		n += runeWeight(r)
	}
	return n
}

// Length is the weighted length X checks against the 280 limit, after NFC.
func Length(s string) int {
	n := 0
	g := uniseg.NewGraphemes(norm.NFC.String(s))
	for g.Next() {
		n += clusterWeight(g.Runes())
	}
	return n
}

// Truncate shortens s to at most limit weighted characters, ending in
// Ellipsis when cut. It never splits a grapheme cluster.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if Length(s) <= limit {
		return s
	}
	keep, suffix := limit-Length(Ellipsis), Ellipsis
	if keep <= 0 {
		keep, suffix = limit, ""
	}

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(norm.NFC.String(s))
	for g.Next() {
		w := clusterWeight(g.Runes())
		if used+w > keep {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return strings.TrimRight(b.String(), " \t\n") + suffix
}
