package journal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPostInput() PostInput {
	return PostInput{
		Title:     "Night train to Lisbon",
		Excerpt:   "Twelve hours, one sleeper car.",
		FullStory: strings.Repeat("The night train rolled on through the dark. ", 3),
		Category:  string(CategoryTravel),
		Image:     &Upload{Data: []byte{0xff, 0xd8}, Filename: "tram.jpg", ContentType: "image/jpeg"},
	}
}

func TestPostInputValidate(t *testing.T) {
	require.NoError(t, validPostInput().Validate())

	tests := []struct {
		name   string
		mutate func(*PostInput)
		field  string
	}{
		{"short title", func(in *PostInput) { in.Title = "Hi" }, "title"},
		{"short excerpt", func(in *PostInput) { in.Excerpt = "short" }, "excerpt"},
		{"short story", func(in *PostInput) { in.FullStory = "too short" }, "fullStory"},
		{"missing category", func(in *PostInput) { in.Category = "" }, "category"},
		{"unknown category", func(in *PostInput) { in.Category = "Food" }, "category"},
		{"missing image", func(in *PostInput) { in.Image = nil }, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPostInput()
			tt.mutate(&in)
			err := in.Validate()
			require.ErrorIs(t, err, ErrValidation)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.field)
			assert.Len(t, verrs, 1)
		})
	}
}

func TestPostInputMissingImageMessage(t *testing.T) {
	in := validPostInput()
	in.Image = nil
	assert.Equal(t, ErrImageRequired, UserMessage(in.Validate(), ""))
}

func TestPostUpdateValidatesOnlyPresentFields(t *testing.T) {
	require.NoError(t, PostUpdate{}.Validate())

	title := "ok title"
	require.NoError(t, PostUpdate{Title: &title}.Validate())

	short := "x"
	err := PostUpdate{Title: &short}.Validate()
	require.ErrorIs(t, err, ErrValidation)

	bad := "Not A Slug"
	err = PostUpdate{NewSlug: &bad}.Validate()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "newSlug")

	good := "a-new-slug-2"
	require.NoError(t, PostUpdate{NewSlug: &good}.Validate())
}

func TestCredentialsValidate(t *testing.T) {
	require.NoError(t, Credentials{Email: "admin@example.com", Password: "secret1"}.Validate())

	err := Credentials{Email: "not-an-email", Password: "secret1"}.Validate()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Please provide a valid email", verrs["email"])

	err = Credentials{Email: "admin@example.com", Password: "12345"}.Validate()
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "password")
}

func TestProfileAndSiteUpdateValidate(t *testing.T) {
	name := "J"
	email := "jane@example"
	err := ProfileUpdate{AuthorName: &name, Email: &email}.Validate()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "authorName")
	assert.Contains(t, verrs, "email")

	require.NoError(t, ProfileUpdate{Avatar: ImageURL("https://cdn.example.com/a.jpg")}.Validate())

	bio := "too short"
	err = SiteUpdate{BannerBio: &bio}.Validate()
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "bannerBio")
}

func TestAccountInputsValidate(t *testing.T) {
	require.NoError(t, UpdateEmailInput{Email: "new@example.com", Password: "secret1"}.Validate())
	require.ErrorIs(t, UpdateEmailInput{Email: "new@example.com"}.Validate(), ErrValidation)

	require.NoError(t, UpdatePasswordInput{CurrentPassword: "old", NewPassword: "secret1"}.Validate())
	err := UpdatePasswordInput{NewPassword: "123"}.Validate()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "currentPassword")
	assert.Contains(t, verrs, "newPassword")
}
