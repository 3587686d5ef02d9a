package journal

import (
	"context"
	"fmt"
)

// ProfileUpdate is a partial profile. Nil fields are left unchanged; an unset
// Avatar is left unchanged too.
type ProfileUpdate struct {
	AuthorName   *string
	AuthorTitle  *string
	AuthorSlogan *string
	AuthorBio    *string
	AuthorStory  *string
	Email        *string
	X            *string
	Instagram    *string
	Facebook     *string
	Portfolio    *string
	Avatar       ImageField
}

// body picks JSON unless the avatar is a file.
func (in ProfileUpdate) body() requestBody {
	if in.Avatar.IsUpload() {
		f := &formBody{}
		in.writeFields(f.setOptional)
		f.setImage("avatar", in.Avatar)
		return f
	}
	m := map[string]string{}
	in.writeFields(func(name string, v *string) {
		if v != nil {
			m[name] = *v
		}
	})
	if in.Avatar.IsSet() {
		m["avatar"] = in.Avatar.URL()
	}
	return jsonBody{m}
}

func (in ProfileUpdate) writeFields(set func(string, *string)) {
	set("authorName", in.AuthorName)
	set("authorTitle", in.AuthorTitle)
	set("authorSlogan", in.AuthorSlogan)
	set("authorBio", in.AuthorBio)
	set("authorStory", in.AuthorStory)
	set("email", in.Email)
	set("x", in.X)
	set("instagram", in.Instagram)
	set("facebook", in.Facebook)
	set("portfolio", in.Portfolio)
}

// ProfileService maps the /profile routes.
type ProfileService struct {
	t *Transport
}

// NewProfileService creates a ProfileService over t.
func NewProfileService(t *Transport) *ProfileService {
	return &ProfileService{t: t}
}

// Get returns the author profile.
func (s *ProfileService) Get(ctx context.Context) (Profile, error) {
	var p Profile
	if err := s.t.Get(ctx, "/profile/get", nil, &p); err != nil {
		return Profile{}, fmt.Errorf("journal: get profile: %w", err)
	}
	return p, nil
}

// Update applies a partial profile and returns the stored result.
func (s *ProfileService) Update(ctx context.Context, in ProfileUpdate) (Profile, error) {
	if err := in.Validate(); err != nil {
		return Profile{}, err
	}
	var p Profile
	if err := s.t.Patch(ctx, "/profile/update", in.body(), &p); err != nil {
		return Profile{}, fmt.Errorf("journal: update profile: %w", err)
	}
	return p, nil
}
