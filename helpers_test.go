package journal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":             "hello-world",
		"  Night train: Lisbon! ": "night-train-lisbon",
		"already-a-slug":          "already-a-slug",
		"Ça va?":                  "a-va",
		"---":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestPostURL(t *testing.T) {
	assert.Equal(t, "https://example.com/blog/hello", PostURL("https://example.com", "hello"))
	assert.Equal(t, "https://example.com/sub/blog/hello", PostURL("https://example.com/sub/", "hello"))
}

func TestShareLinks(t *testing.T) {
	links := ShareLinks("https://example.com", Post{Title: "Night train", Slug: "night-train"})
	require.Len(t, links, 5)

	names := make([]string, len(links))
	for i, l := range links {
		names[i] = l.Name
		assert.Contains(t, l.URL, "https%3A%2F%2Fexample.com%2Fblog%2Fnight-train", l.Name)
	}
	assert.Equal(t, []string{"Facebook", "X", "LinkedIn", "WhatsApp", "Email"}, names)

	for _, l := range links {
		assert.False(t, strings.Contains(l.URL, "Night+train"), "%s should not encode spaces as '+'", l.Name)
	}
}
