package journal

import (
	"context"
	"fmt"
)

// SiteUpdate is a partial set of banner settings.
type SiteUpdate struct {
	WebsiteName  *string
	BannerTitle  *string
	BannerSlogan *string
	BannerBio    *string
	BannerImage  ImageField
}

func (in SiteUpdate) body() requestBody {
	if in.BannerImage.IsUpload() {
		f := &formBody{}
		f.setOptional("websiteName", in.WebsiteName)
		f.setOptional("bannerTitle", in.BannerTitle)
		f.setOptional("bannerSlogan", in.BannerSlogan)
		f.setOptional("bannerBio", in.BannerBio)
		f.setImage("bannerImage", in.BannerImage)
		return f
	}
	m := map[string]string{}
	for name, v := range map[string]*string{
		"websiteName":  in.WebsiteName,
		"bannerTitle":  in.BannerTitle,
		"bannerSlogan": in.BannerSlogan,
		"bannerBio":    in.BannerBio,
	} {
		if v != nil {
			m[name] = *v
		}
	}
	if in.BannerImage.IsSet() {
		m["bannerImage"] = in.BannerImage.URL()
	}
	return jsonBody{m}
}

// SiteService maps the /site routes.
type SiteService struct {
	t *Transport
}

// NewSiteService creates a SiteService over t.
func NewSiteService(t *Transport) *SiteService {
	return &SiteService{t: t}
}

// Get returns the site settings.
func (s *SiteService) Get(ctx context.Context) (Site, error) {
	var site Site
	if err := s.t.Get(ctx, "/site/get", nil, &site); err != nil {
		return Site{}, fmt.Errorf("journal: get site: %w", err)
	}
	return site, nil
}

// Update applies partial settings and returns the stored result.
func (s *SiteService) Update(ctx context.Context, in SiteUpdate) (Site, error) {
	if err := in.Validate(); err != nil {
		return Site{}, err
	}
	var site Site
	if err := s.t.Patch(ctx, "/site/update", in.body(), &site); err != nil {
		return Site{}, fmt.Errorf("journal: update site: %w", err)
	}
	return site, nil
}
