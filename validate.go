package journal

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Minimum lengths accepted by the dashboard forms.
const (
	minTitle     = 3
	minExcerpt   = 10
	minFullStory = 50

	minAuthorName   = 2
	minAuthorTitle  = 2
	minAuthorSlogan = 5
	minAuthorBio    = 10
	minAuthorStory  = 10

	minWebsiteName  = 3
	minBannerTitle  = 3
	minBannerSlogan = 5
	minBannerBio    = 10

	minPassword = 6
)

// ErrImageRequired is the message for a new post without a featured image.
const ErrImageRequired = "Featured image is required for new posts"

func checkMin(errs ValidationErrors, field, label, value string, n int) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		errs[field] = fmt.Sprintf("%s must be at least %d characters", label, n)
	}
}

func checkMinOptional(errs ValidationErrors, field, label string, value *string, n int) {
	if value != nil {
		checkMin(errs, field, label, *value, n)
	}
}

func checkEmail(errs ValidationErrors, field, value string) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != strings.TrimSpace(value) || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@")+1:], ".") {
		errs[field] = "Please provide a valid email"
	}
}

func checkCategory(errs ValidationErrors, value string) {
	switch {
	case strings.TrimSpace(value) == "":
		errs["category"] = "Category required"
	case !ValidCategory(value):
		errs["category"] = fmt.Sprintf("Category must be one of %s", categoryList())
	}
}

func categoryList() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// Validate checks a new post. The image is mandatory.
func (in PostInput) Validate() error {
	errs := ValidationErrors{}
	checkMin(errs, "title", "Title", in.Title, minTitle)
	checkMin(errs, "excerpt", "Excerpt", in.Excerpt, minExcerpt)
	checkMin(errs, "fullStory", "Content", in.FullStory, minFullStory)
	checkCategory(errs, in.Category)
	if in.Image == nil {
		errs["image"] = ErrImageRequired
	}
	return errs.orNil()
}

// Validate checks only the fields present in the update.
func (in PostUpdate) Validate() error {
	errs := ValidationErrors{}
	checkMinOptional(errs, "title", "Title", in.Title, minTitle)
	checkMinOptional(errs, "excerpt", "Excerpt", in.Excerpt, minExcerpt)
	checkMinOptional(errs, "fullStory", "Content", in.FullStory, minFullStory)
	if in.Category != nil {
		checkCategory(errs, *in.Category)
	}
	if in.NewSlug != nil && Slugify(*in.NewSlug) != *in.NewSlug {
		errs["newSlug"] = "Slug may only contain lowercase letters, digits and dashes"
	}
	return errs.orNil()
}

// Validate checks only the fields present in the update.
func (in ProfileUpdate) Validate() error {
	errs := ValidationErrors{}
	checkMinOptional(errs, "authorName", "Author name", in.AuthorName, minAuthorName)
	checkMinOptional(errs, "authorTitle", "Author title", in.AuthorTitle, minAuthorTitle)
	checkMinOptional(errs, "authorSlogan", "Author slogan", in.AuthorSlogan, minAuthorSlogan)
	checkMinOptional(errs, "authorBio", "Author bio", in.AuthorBio, minAuthorBio)
	checkMinOptional(errs, "authorStory", "Author story", in.AuthorStory, minAuthorStory)
	if in.Email != nil {
		checkEmail(errs, "email", *in.Email)
	}
	return errs.orNil()
}

// Validate checks only the fields present in the update.
func (in SiteUpdate) Validate() error {
	errs := ValidationErrors{}
	checkMinOptional(errs, "websiteName", "Website name", in.WebsiteName, minWebsiteName)
	checkMinOptional(errs, "bannerTitle", "Banner title", in.BannerTitle, minBannerTitle)
	checkMinOptional(errs, "bannerSlogan", "Banner slogan", in.BannerSlogan, minBannerSlogan)
	checkMinOptional(errs, "bannerBio", "Banner bio", in.BannerBio, minBannerBio)
	return errs.orNil()
}

// Validate checks login credentials.
func (c Credentials) Validate() error {
	errs := ValidationErrors{}
	checkEmail(errs, "email", c.Email)
	if utf8.RuneCountInString(c.Password) < minPassword {
		errs["password"] = fmt.Sprintf("Password must be at least %d characters", minPassword)
	}
	return errs.orNil()
}

// Validate checks an email change request.
func (in UpdateEmailInput) Validate() error {
	errs := ValidationErrors{}
	checkEmail(errs, "email", in.Email)
	if in.Password == "" {
		errs["password"] = "Current password is required"
	}
	return errs.orNil()
}

// Validate checks a password change request.
func (in UpdatePasswordInput) Validate() error {
	errs := ValidationErrors{}
	if in.CurrentPassword == "" {
		errs["currentPassword"] = "Current password is required"
	}
	if utf8.RuneCountInString(in.NewPassword) < minPassword {
		errs["newPassword"] = fmt.Sprintf("Password must be at least %d characters", minPassword)
	}
	return errs.orNil()
}
