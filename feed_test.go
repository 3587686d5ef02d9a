package journal

import (
	"bytes"
	"encoding/xml"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedPosts() []Post {
	created := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	return []Post{
		{Title: "Night train", Slug: "night-train", Excerpt: "Twelve hours.", Category: "Travel", CreatedAt: created},
		{Title: "Undated", Slug: "undated"},
	}
}

func TestWriteRSS(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRSS(&buf, Site{WebsiteName: "Road Notes", BannerBio: "Notes from the road."}, "https://example.com", feedPosts()))

	var feed rssXML
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &feed))
	assert.Equal(t, "2.0", feed.Version)
	assert.Equal(t, "Road Notes", feed.Channel.Title)
	assert.Equal(t, "Notes from the road.", feed.Channel.Description)
	require.Len(t, feed.Channel.Items, 2)

	item := feed.Channel.Items[0]
	assert.Equal(t, "https://example.com/blog/night-train", item.Link)
	assert.Equal(t, item.Link, item.GUID)
	assert.Equal(t, "Travel", item.Category)
	assert.Equal(t, "Mon, 15 Jan 2024 09:30:00 +0000", item.PubDate)
	assert.Empty(t, feed.Channel.Items[1].PubDate)
}

func TestWriteRSSDefaultsTitle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRSS(&buf, Site{}, "https://example.com", nil))
	assert.Contains(t, buf.String(), "<title>Journal</title>")
}

func TestWriteSitemap(t *testing.T) {
	posts := feedPosts()
	posts[0].UpdatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteSitemap(&buf, "https://example.com", posts))

	var set sitemapURLSet
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &set))
	require.Len(t, set.URLs, 5)
	assert.Equal(t, "https://example.com", set.URLs[0].Loc)
	assert.Equal(t, "https://example.com/blog", set.URLs[1].Loc)
	assert.Equal(t, "https://example.com/about", set.URLs[2].Loc)
	assert.Equal(t, "https://example.com/blog/night-train", set.URLs[3].Loc)
	assert.Equal(t, "2024-02-01", set.URLs[3].LastMod)
	assert.Empty(t, set.URLs[4].LastMod)
}
