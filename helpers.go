package journal

import (
	"net/url"
	"path"
	"strings"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// PostURL returns the public address of a story on the site.
func PostURL(siteURL, slug string) string {
	return buildURL(siteURL, "blog", slug)
}

func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	return u.String()
}

// ShareLink is one "share this story" target.
type ShareLink struct {
	Name string
	URL  string
}

// ShareLinks builds the share targets shown under a story.
func ShareLinks(siteURL string, p Post) []ShareLink {
	postURL := url.QueryEscape(PostURL(siteURL, p.Slug))
	title := url.QueryEscape(p.Title)
	// QueryEscape encodes spaces as '+', which mailto and wa.me show literally.
	title = strings.ReplaceAll(title, "+", "%20")
	return []ShareLink{
		{Name: "Facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=" + postURL},
		{Name: "X", URL: "https://twitter.com/intent/tweet?url=" + postURL + "&text=" + title},
		{Name: "LinkedIn", URL: "https://www.linkedin.com/sharing/share-offsite/?url=" + postURL},
		{Name: "WhatsApp", URL: "https://wa.me/?text=" + title + "%20" + postURL},
		{Name: "Email", URL: "mailto:?subject=" + title + "&body=" + title + ":%20" + postURL},
	}
}
