package journal

import (
	"context"
	"fmt"
	"time"
)

// Cache keys for each resource.
func postsKey(page, limit int) Key { return Key{"posts", page, limit} }

func categoryKey(category string, page, limit int) Key {
	return Key{"posts", "category", category, page, limit}
}

func postKey(slug string) Key { return Key{"post", slug} }

var (
	allPostsKey    = Key{"posts"}
	profileKey     = Key{"profile"}
	siteKey        = Key{"site"}
	currentUserKey = Key{"currentUser"}
)

func (c *Client) readOpts(stale time.Duration) QueryOptions {
	return QueryOptions{StaleTime: stale, Retries: c.Config.ReadRetries}
}

// ListPosts returns a page of posts through the cache.
func (c *Client) ListPosts(ctx context.Context, page, limit int) (PostsResponse, error) {
	page, limit = NormalizePage(page, limit)
	return Query(ctx, c.Cache, postsKey(page, limit), c.readOpts(c.Config.PostsStaleTime),
		func(ctx context.Context) (PostsResponse, error) {
			return c.Posts.List(ctx, page, limit)
		})
}

// ListPostsByCategory returns a page of posts in category through the cache.
func (c *Client) ListPostsByCategory(ctx context.Context, category string, page, limit int) (PostsResponse, error) {
	page, limit = NormalizePage(page, limit)
	return Query(ctx, c.Cache, categoryKey(category, page, limit), c.readOpts(c.Config.PostsStaleTime),
		func(ctx context.Context) (PostsResponse, error) {
			return c.Posts.ListByCategory(ctx, category, page, limit)
		})
}

// GetPost returns a single post through the cache. It stays cached until a
// mutation invalidates it.
func (c *Client) GetPost(ctx context.Context, slug string) (Post, error) {
	return Query(ctx, c.Cache, postKey(slug), c.readOpts(StaleNever),
		func(ctx context.Context) (Post, error) {
			return c.Posts.GetBySlug(ctx, slug)
		})
}

// AllPosts walks every page of posts, limit at a time.
func (c *Client) AllPosts(ctx context.Context, limit int) ([]Post, error) {
	var out []Post
	for page := 1; ; page++ {
		res, err := c.ListPosts(ctx, page, limit)
		if err != nil {
			return nil, err
		}
		out = append(out, res.Posts...)
		if !res.Pagination.HasNextPage || len(res.Posts) == 0 {
			return out, nil
		}
	}
}

// CreatePost publishes a post and invalidates every cached list.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (Post, error) {
	p, err := c.Posts.Create(ctx, in)
	if err != nil {
		return Post{}, err
	}
	c.Cache.Invalidate(allPostsKey)
	c.Cache.Set(postKey(p.Slug), p)
	return p, nil
}

// UpdatePost changes a post and invalidates every cached list plus the
// single-post entries for the old and the new slug.
func (c *Client) UpdatePost(ctx context.Context, slug string, in PostUpdate) (Post, error) {
	p, err := c.Posts.Update(ctx, slug, in)
	if err != nil {
		return Post{}, err
	}
	c.Cache.Invalidate(allPostsKey)
	c.Cache.Invalidate(postKey(slug))
	if p.Slug != "" && p.Slug != slug {
		c.Cache.Remove(postKey(slug))
		c.Cache.Invalidate(postKey(p.Slug))
	}
	return p, nil
}

// DeletePost removes a post, drops its cached copy and invalidates every
// cached list.
func (c *Client) DeletePost(ctx context.Context, slug string) error {
	if err := c.Posts.Delete(ctx, slug); err != nil {
		return err
	}
	c.Cache.Remove(postKey(slug))
	c.Cache.Invalidate(allPostsKey)
	return nil
}

// GetProfile returns the author profile through the cache.
func (c *Client) GetProfile(ctx context.Context) (Profile, error) {
	return Query(ctx, c.Cache, profileKey, c.readOpts(c.Config.ProfileStaleTime), c.Profile.Get)
}

// UpdateProfile saves the profile, stores the server's copy in the cache and
// marks it stale so dependent reads refresh.
func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (Profile, error) {
	p, err := c.Profile.Update(ctx, in)
	if err != nil {
		return Profile{}, err
	}
	c.Cache.Set(profileKey, p)
	c.Cache.Invalidate(profileKey)
	return p, nil
}

// GetSite returns the site settings through the cache. Failed reads retry
// at most once.
func (c *Client) GetSite(ctx context.Context) (Site, error) {
	opts := c.readOpts(c.Config.SiteStaleTime)
	opts.Retries = min(opts.Retries, 1)
	return Query(ctx, c.Cache, siteKey, opts, c.Site.Get)
}

// UpdateSite saves the site settings the same way UpdateProfile does.
func (c *Client) UpdateSite(ctx context.Context, in SiteUpdate) (Site, error) {
	s, err := c.Site.Update(ctx, in)
	if err != nil {
		return Site{}, err
	}
	c.Cache.Set(siteKey, s)
	c.Cache.Invalidate(siteKey)
	return s, nil
}

// CurrentUser probes the session through the cache. It never retries:
// ErrUnauthenticated is a valid answer.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	opts := QueryOptions{StaleTime: c.Config.UserStaleTime}
	return Query(ctx, c.Cache, currentUserKey, opts, c.Auth.CurrentUser)
}

// Login signs in through the Session.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	return c.Session.Login(ctx, email, password)
}

// Logout signs out through the Session. It never fails from the caller's
// point of view.
func (c *Client) Logout(ctx context.Context) {
	c.Session.Logout(ctx)
}

// UpdateEmail changes the admin email and refreshes the signed-in user.
func (c *Client) UpdateEmail(ctx context.Context, in UpdateEmailInput) (User, error) {
	u, err := c.Auth.UpdateEmail(ctx, in)
	if err != nil {
		return User{}, err
	}
	c.Cache.Invalidate(currentUserKey)
	if u.ID != "" {
		if err := c.Session.SetUser(&u); err != nil {
			return u, fmt.Errorf("journal: persist user: %w", err)
		}
	}
	return u, nil
}

// UpdatePassword changes the admin password.
func (c *Client) UpdatePassword(ctx context.Context, in UpdatePasswordInput) error {
	return c.Auth.UpdatePassword(ctx, in)
}
