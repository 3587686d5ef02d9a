package journal

import (
	"encoding/xml"
	"io"
	"time"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// WriteRSS writes an RSS 2.0 feed of posts, titled from the site settings.
func WriteRSS(w io.Writer, site Site, siteURL string, posts []Post) error {
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		pubDate := ""
		if !p.CreatedAt.IsZero() {
			pubDate = p.CreatedAt.UTC().Format(time.RFC1123Z)
		}
		postURL := PostURL(siteURL, p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Excerpt,
			Category:    p.Category,
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}
	title := site.WebsiteName
	if title == "" {
		title = "Journal"
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       title,
			Link:        siteURL,
			Description: site.BannerBio,
			Items:       items,
		},
	}
	return writeXML(w, feed)
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap writes a sitemap listing the home, blog and about pages and
// every post.
func WriteSitemap(w io.Writer, siteURL string, posts []Post) error {
	urls := []sitemapURL{
		{Loc: buildURL(siteURL)},
		{Loc: buildURL(siteURL, "blog")},
		{Loc: buildURL(siteURL, "about")},
	}
	for _, p := range posts {
		lastMod := p.UpdatedAt
		if lastMod.IsZero() {
			lastMod = p.CreatedAt
		}
		u := sitemapURL{Loc: PostURL(siteURL, p.Slug)}
		if !lastMod.IsZero() {
			u.LastMod = lastMod.UTC().Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	return writeXML(w, sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

func writeXML(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
