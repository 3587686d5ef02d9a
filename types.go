package journal

import "time"

// Post is a single story. Slug is the address used for reads, updates and
// deletes and is unique across all posts.
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	FullStory string    `json:"fullStory"`
	Category  string    `json:"category"`
	Image     string    `json:"image"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Pagination describes where a PostsResponse sits in the full result set.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// PostsResponse is one page of posts.
type PostsResponse struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// SocialLinks is the older nested shape some deployments still return.
type SocialLinks struct {
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Website   string `json:"website,omitempty"`
}

// Profile is the author record. There is exactly one per deployment.
type Profile struct {
	ID           string       `json:"_id,omitempty"`
	AuthorName   string       `json:"authorName"`
	AuthorTitle  string       `json:"authorTitle"`
	AuthorSlogan string       `json:"authorSlogan"`
	AuthorBio    string       `json:"authorBio"`
	AuthorStory  string       `json:"authorStory"`
	Email        string       `json:"email"`
	Avatar       string       `json:"avatar"`
	X            string       `json:"x"`
	Instagram    string       `json:"instagram"`
	Facebook     string       `json:"facebook"`
	Portfolio    string       `json:"portfolio"`
	Social       *SocialLinks `json:"social,omitempty"`
}

// XURL returns the X/Twitter link, falling back to the legacy social map.
func (p Profile) XURL() string {
	if p.X != "" || p.Social == nil {
		return p.X
	}
	return p.Social.Twitter
}

// InstagramURL returns the Instagram link, falling back to the legacy social map.
func (p Profile) InstagramURL() string {
	if p.Instagram != "" || p.Social == nil {
		return p.Instagram
	}
	return p.Social.Instagram
}

// PortfolioURL returns the portfolio link, falling back to the legacy website entry.
func (p Profile) PortfolioURL() string {
	if p.Portfolio != "" || p.Social == nil {
		return p.Portfolio
	}
	return p.Social.Website
}

// Site holds the site-wide banner settings. There is exactly one per deployment.
type Site struct {
	ID           string `json:"_id,omitempty"`
	WebsiteName  string `json:"websiteName"`
	BannerTitle  string `json:"bannerTitle"`
	BannerSlogan string `json:"bannerSlogan"`
	BannerBio    string `json:"bannerBio"`
	BannerImage  string `json:"bannerImage"`
}

// User is the signed-in administrator.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Category is one of the fixed story categories.
type Category string

const (
	CategoryLife        Category = "Life"
	CategoryPersonal    Category = "Personal"
	CategoryTravel      Category = "Travel"
	CategoryInspiration Category = "Inspiration"
)

// Categories lists every accepted category in display order.
var Categories = []Category{CategoryLife, CategoryPersonal, CategoryTravel, CategoryInspiration}

// ValidCategory reports whether s names one of Categories.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}
