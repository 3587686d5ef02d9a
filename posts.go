package journal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// PostInput is a new story. Image is required.
type PostInput struct {
	Title     string
	Excerpt   string
	FullStory string
	Category  string
	Image     *Upload
}

// PostUpdate is a partial story. NewSlug renames the post.
type PostUpdate struct {
	Title     *string
	Excerpt   *string
	FullStory *string
	Category  *string
	NewSlug   *string
	Image     *Upload
}

// Empty reports whether the update carries no changes.
func (in PostUpdate) Empty() bool {
	return in.Title == nil && in.Excerpt == nil && in.FullStory == nil &&
		in.Category == nil && in.NewSlug == nil && in.Image == nil
}

// PostService maps the /post routes.
type PostService struct {
	t *Transport
}

// NewPostService creates a PostService over t.
func NewPostService(t *Transport) *PostService {
	return &PostService{t: t}
}

func pageQuery(page, limit int) url.Values {
	page, limit = NormalizePage(page, limit)
	return url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
}

// List returns one page of posts, newest first.
func (s *PostService) List(ctx context.Context, page, limit int) (PostsResponse, error) {
	var res PostsResponse
	if err := s.t.Get(ctx, "/post/get", pageQuery(page, limit), &res); err != nil {
		return PostsResponse{}, fmt.Errorf("journal: list posts: %w", err)
	}
	return res, nil
}

// GetBySlug returns a single post or ErrNotFound.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (Post, error) {
	if slug == "" {
		return Post{}, ValidationErrors{"slug": "Slug is required"}
	}
	var p Post
	if err := s.t.Get(ctx, "/post/get/"+escapeSegment(slug), nil, &p); err != nil {
		return Post{}, fmt.Errorf("journal: get post %q: %w", slug, err)
	}
	return p, nil
}

// ListByCategory returns one page of posts in category.
func (s *PostService) ListByCategory(ctx context.Context, category string, page, limit int) (PostsResponse, error) {
	if category == "" {
		return PostsResponse{}, ValidationErrors{"category": "Category required"}
	}
	var res PostsResponse
	path := "/post/get-by-category/" + escapeSegment(category)
	if err := s.t.Get(ctx, path, pageQuery(page, limit), &res); err != nil {
		return PostsResponse{}, fmt.Errorf("journal: list %s posts: %w", category, err)
	}
	return res, nil
}

// Create publishes a new post. The server assigns the slug.
func (s *PostService) Create(ctx context.Context, in PostInput) (Post, error) {
	if err := in.Validate(); err != nil {
		return Post{}, err
	}
	f := &formBody{}
	f.set("title", in.Title)
	f.set("excerpt", in.Excerpt)
	f.set("fullStory", in.FullStory)
	f.set("category", in.Category)
	f.setImage("image", ImageUpload(*in.Image))
	var p Post
	if err := s.t.Post(ctx, "/post/create", f, &p); err != nil {
		return Post{}, fmt.Errorf("journal: create post: %w", err)
	}
	return p, nil
}

// Update changes the post at slug. The returned post carries the new slug
// when NewSlug was set.
func (s *PostService) Update(ctx context.Context, slug string, in PostUpdate) (Post, error) {
	if slug == "" {
		return Post{}, ValidationErrors{"slug": "Slug is required"}
	}
	if err := in.Validate(); err != nil {
		return Post{}, err
	}
	f := &formBody{}
	f.setOptional("title", in.Title)
	f.setOptional("excerpt", in.Excerpt)
	f.setOptional("fullStory", in.FullStory)
	f.setOptional("category", in.Category)
	f.setOptional("newSlug", in.NewSlug)
	if in.Image != nil {
		f.setImage("image", ImageUpload(*in.Image))
	}
	var p Post
	if err := s.t.Patch(ctx, "/post/update/"+escapeSegment(slug), f, &p); err != nil {
		return Post{}, fmt.Errorf("journal: update post %q: %w", slug, err)
	}
	return p, nil
}

// Delete removes the post at slug.
func (s *PostService) Delete(ctx context.Context, slug string) error {
	if slug == "" {
		return ValidationErrors{"slug": "Slug is required"}
	}
	if err := s.t.Delete(ctx, "/post/delete/"+escapeSegment(slug), nil); err != nil {
		return fmt.Errorf("journal: delete post %q: %w", slug, err)
	}
	return nil
}
