package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashtags(t *testing.T) {
	assert.Equal(t, []string{"#csharp", "#dotnet", "#net"}, Hashtags("C# is not a tag but #csharp is, and #dotnet and #net too"))
	assert.Empty(t, Hashtags("no tags, a#b, https://x.com/#frag"))
	assert.Equal(t, 2, CountHashtags("#go,#rust"))
}

func TestCapHashtags(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{in: "Ship small PRs #git #dev #productivity #coding", limit: 2, want: "Ship small PRs #git #dev"},
		{in: "#one #two #three lead the line", limit: 2, want: "#one #two lead the line"},
		{in: "Mixed #a text #b more #c words", limit: 2, want: "Mixed #a text #b more words"},
		{in: "Under the cap #a #b", limit: 2, want: "Under the cap #a #b"},
		{in: "Line one #a #b\n#c", limit: 2, want: "Line one #a #b"},
		{in: "Zero allowed #a here", limit: 0, want: "Zero allowed here"},
	}
	for _, tc := range cases {
		got := CapHashtags(tc.in, tc.limit)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.LessOrEqual(t, CountHashtags(got), tc.limit)
	}
}
