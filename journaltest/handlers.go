package journaltest

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/eringen/journal"
)

// --- auth ---

func (a *API) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(sessionName, c)
		if err != nil {
			return fail(c, http.StatusUnauthorized, "Not authenticated")
		}
		auth, _ := sess.Values["authenticated"].(bool)
		epoch, _ := sess.Values["epoch"].(int)
		a.mu.Lock()
		current := a.epoch
		a.mu.Unlock()
		if !auth || epoch != current {
			return fail(c, http.StatusUnauthorized, "Not authenticated")
		}
		return next(c)
	}
}

func (a *API) user() journal.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return journal.User{ID: a.admin.id, Email: a.admin.email, Name: a.admin.name}
}

func (a *API) handleLogin(c echo.Context) error {
	var creds journal.Credentials
	if err := c.Bind(&creds); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if creds.Email == "" || creds.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required")
	}

	a.mu.Lock()
	match := strings.EqualFold(creds.Email, a.admin.email) &&
		bcrypt.CompareHashAndPassword(a.admin.passwordHash, []byte(creds.Password)) == nil
	epoch := a.epoch
	a.mu.Unlock()
	if !match {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	sess, err := session.Get(sessionName, c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Session error")
	}
	sess.Values["authenticated"] = true
	sess.Values["epoch"] = epoch
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fail(c, http.StatusInternalServerError, "Session error")
	}
	return ok(c, http.StatusOK, journal.LoginResult{User: a.user()})
}

func (a *API) handleLogout(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err == nil {
		sess.Values["authenticated"] = false
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request(), c.Response())
	}
	return ok(c, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (a *API) handleMe(c echo.Context) error {
	return ok(c, http.StatusOK, map[string]journal.User{"user": a.user()})
}

func (a *API) handleUpdateEmail(c echo.Context) error {
	var in journal.UpdateEmailInput
	if err := c.Bind(&in); err != nil || in.Email == "" {
		return fail(c, http.StatusBadRequest, "Email is required")
	}
	a.mu.Lock()
	if bcrypt.CompareHashAndPassword(a.admin.passwordHash, []byte(in.Password)) != nil {
		a.mu.Unlock()
		return fail(c, http.StatusBadRequest, "Current password is incorrect")
	}
	a.admin.email = in.Email
	a.mu.Unlock()
	return ok(c, http.StatusOK, map[string]journal.User{"user": a.user()})
}

func (a *API) handleUpdatePassword(c echo.Context) error {
	var in journal.UpdatePasswordInput
	if err := c.Bind(&in); err != nil || in.NewPassword == "" {
		return fail(c, http.StatusBadRequest, "New password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.MinCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Could not hash password")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if bcrypt.CompareHashAndPassword(a.admin.passwordHash, []byte(in.CurrentPassword)) != nil {
		return fail(c, http.StatusBadRequest, "Current password is incorrect")
	}
	a.admin.passwordHash = hash
	return ok(c, http.StatusOK, map[string]string{"message": "Password updated"})
}

// --- posts ---

func queryInt(c echo.Context, name string, def int) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// page slices posts the way the service does: newest first, 1-based pages.
func page(posts []journal.Post, pageNum, limit int) journal.PostsResponse {
	total := len(posts)
	totalPages := max((total+limit-1)/limit, 1)
	start := min((pageNum-1)*limit, total)
	end := min(start+limit, total)
	out := make([]journal.Post, end-start)
	copy(out, posts[start:end])
	return journal.PostsResponse{
		Posts: out,
		Pagination: journal.Pagination{
			CurrentPage: pageNum,
			TotalPages:  totalPages,
			TotalPosts:  total,
			Limit:       limit,
			HasNextPage: pageNum < totalPages,
			HasPrevPage: pageNum > 1,
		},
	}
}

func (a *API) handleListPosts(c echo.Context) error {
	p := queryInt(c, "page", 1)
	l := queryInt(c, "limit", journal.DefaultPageLimit)
	a.mu.Lock()
	res := page(a.posts, p, l)
	a.mu.Unlock()
	return ok(c, http.StatusOK, res)
}

func (a *API) handleListByCategory(c echo.Context) error {
	category := c.Param("category")
	if !journal.ValidCategory(category) {
		return fail(c, http.StatusBadRequest, "Invalid category")
	}
	p := queryInt(c, "page", 1)
	l := queryInt(c, "limit", journal.DefaultPageLimit)
	a.mu.Lock()
	var matched []journal.Post
	for _, post := range a.posts {
		if post.Category == category {
			matched = append(matched, post)
		}
	}
	res := page(matched, p, l)
	a.mu.Unlock()
	return ok(c, http.StatusOK, res)
}

func (a *API) handleGetPost(c echo.Context) error {
	post, found := a.Post(c.Param("slug"))
	if !found {
		return fail(c, http.StatusNotFound, "Post not found")
	}
	return ok(c, http.StatusOK, post)
}

// storeUpload turns a multipart file into the URL the service would serve it
// from.
func storeUpload(fh *multipart.FileHeader) string {
	return fmt.Sprintf("/uploads/%s-%s", uuid.NewString(), fh.Filename)
}

func (a *API) handleCreatePost(c echo.Context) error {
	title := strings.TrimSpace(c.FormValue("title"))
	category := c.FormValue("category")
	if title == "" || !journal.ValidCategory(category) {
		return fail(c, http.StatusBadRequest, "Title and a valid category are required")
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return fail(c, http.StatusBadRequest, journal.ErrImageRequired)
	}

	a.mu.Lock()
	now := a.now().UTC()
	post := journal.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Excerpt:   c.FormValue("excerpt"),
		FullStory: c.FormValue("fullStory"),
		Category:  category,
		Image:     storeUpload(fh),
		Slug:      a.uniqueSlugLocked(journal.Slugify(title), ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.posts = append([]journal.Post{post}, a.posts...)
	a.mu.Unlock()
	return ok(c, http.StatusCreated, post)
}

func (a *API) handleUpdatePost(c echo.Context) error {
	slug := c.Param("slug")
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "Expected multipart form")
	}
	value := func(name string) (string, bool) {
		v, present := form.Value[name]
		if !present || len(v) == 0 {
			return "", false
		}
		return v[0], true
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.indexLocked(slug)
	if i < 0 {
		return fail(c, http.StatusNotFound, "Post not found")
	}
	post := a.posts[i]
	if v, present := value("title"); present {
		post.Title = v
	}
	if v, present := value("excerpt"); present {
		post.Excerpt = v
	}
	if v, present := value("fullStory"); present {
		post.FullStory = v
	}
	if v, present := value("category"); present {
		if !journal.ValidCategory(v) {
			return fail(c, http.StatusBadRequest, "Invalid category")
		}
		post.Category = v
	}
	if v, present := value("newSlug"); present && v != slug {
		if a.indexLocked(v) >= 0 {
			return fail(c, http.StatusConflict, "Slug already in use")
		}
		post.Slug = v
	}
	if files := form.File["image"]; len(files) > 0 {
		post.Image = storeUpload(files[0])
	}
	post.UpdatedAt = a.now().UTC()
	a.posts[i] = post
	return ok(c, http.StatusOK, post)
}

func (a *API) handleDeletePost(c echo.Context) error {
	slug := c.Param("slug")
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.indexLocked(slug)
	if i < 0 {
		return fail(c, http.StatusNotFound, "Post not found")
	}
	a.posts = append(a.posts[:i], a.posts[i+1:]...)
	return ok(c, http.StatusOK, map[string]string{"slug": slug})
}

// --- profile and site ---

// partialForm reads a JSON object or a multipart form into fields, and the
// named image field into either a URL or an uploaded file. Sending both
// representations of the image is rejected.
func partialForm(c echo.Context, imageField string) (map[string]string, string, error) {
	fields := map[string]string{}
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		if err := c.Bind(&fields); err != nil {
			return nil, "", err
		}
		return fields, fields[imageField], nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, "", err
	}
	for name, v := range form.Value {
		if len(v) > 0 {
			fields[name] = v[0]
		}
	}
	image := fields[imageField]
	if files := form.File[imageField]; len(files) > 0 {
		if image != "" {
			return nil, "", fmt.Errorf("%s sent as both a URL and a file", imageField)
		}
		image = storeUpload(files[0])
	}
	return fields, image, nil
}

func (a *API) handleGetProfile(c echo.Context) error {
	return ok(c, http.StatusOK, a.Profile())
}

func (a *API) handleUpdateProfile(c echo.Context) error {
	fields, avatar, err := partialForm(c, "avatar")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	a.mu.Lock()
	p := &a.profile
	for name, dst := range map[string]*string{
		"authorName":   &p.AuthorName,
		"authorTitle":  &p.AuthorTitle,
		"authorSlogan": &p.AuthorSlogan,
		"authorBio":    &p.AuthorBio,
		"authorStory":  &p.AuthorStory,
		"email":        &p.Email,
		"x":            &p.X,
		"instagram":    &p.Instagram,
		"facebook":     &p.Facebook,
		"portfolio":    &p.Portfolio,
	} {
		if v, present := fields[name]; present {
			*dst = v
		}
	}
	if avatar != "" {
		p.Avatar = avatar
	}
	out := *p
	a.mu.Unlock()
	return ok(c, http.StatusOK, out)
}

func (a *API) handleGetSite(c echo.Context) error {
	return ok(c, http.StatusOK, a.Site())
}

func (a *API) handleUpdateSite(c echo.Context) error {
	fields, banner, err := partialForm(c, "bannerImage")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	a.mu.Lock()
	s := &a.site
	for name, dst := range map[string]*string{
		"websiteName":  &s.WebsiteName,
		"bannerTitle":  &s.BannerTitle,
		"bannerSlogan": &s.BannerSlogan,
		"bannerBio":    &s.BannerBio,
	} {
		if v, present := fields[name]; present {
			*dst = v
		}
	}
	if banner != "" {
		s.BannerImage = banner
	}
	out := *s
	a.mu.Unlock()
	return ok(c, http.StatusOK, out)
}
