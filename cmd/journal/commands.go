package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/eringen/journal"
	"github.com/eringen/journal/journaltest"
)

var errUsage = errors.New("usage")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

type command func(ctx context.Context, c *journal.Client, args []string) error

var commands = map[string]command{
	"login":    cmdLogin,
	"logout":   cmdLogout,
	"whoami":   cmdWhoami,
	"posts":    cmdPosts,
	"category": cmdCategory,
	"post":     cmdPost,
	"create":   cmdCreate,
	"update":   cmdUpdate,
	"delete":   cmdDelete,
	"profile":  cmdProfile,
	"site":     cmdSite,
	"feed":     cmdFeed,
	"sitemap":  cmdSitemap,
}

func cmdLogin(ctx context.Context, c *journal.Client, args []string) error {
	if len(args) != 1 {
		return usageError("journal login <email>")
	}
	password := os.Getenv("JOURNAL_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		password = strings.TrimRight(line, "\r\n")
	}
	u, err := c.Login(ctx, args[0], password)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s\n", u.Email)
	return nil
}

func cmdLogout(ctx context.Context, c *journal.Client, _ []string) error {
	c.Logout(ctx)
	fmt.Println("Signed out")
	return nil
}

func cmdWhoami(ctx context.Context, c *journal.Client, _ []string) error {
	u, err := c.CurrentUser(ctx)
	if errors.Is(err, journal.ErrUnauthenticated) {
		fmt.Println("Not signed in")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", u.Name, u.Email)
	return nil
}

// pageArgs parses optional [page] [limit] positionals.
func pageArgs(args []string) (int, int, error) {
	nums := []int{1, journal.DefaultPageLimit}
	for i, a := range args {
		if i >= len(nums) {
			return 0, 0, usageError("too many arguments")
		}
		n, err := strconv.Atoi(a)
		if err != nil {
			return 0, 0, usageError("%q is not a number", a)
		}
		nums[i] = n
	}
	page, limit := journal.NormalizePage(nums[0], nums[1])
	return page, limit, nil
}

func printPosts(res journal.PostsResponse) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tCATEGORY\tCREATED\tTITLE")
	for _, p := range res.Posts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Slug, p.Category, p.CreatedAt.Format("2006-01-02"), p.Title)
	}
	w.Flush()

	pager := journal.NewPager(res.Pagination)
	if !pager.Visible() {
		return
	}
	var nums []string
	for _, n := range pager.Numbers() {
		switch {
		case n == 0:
			nums = append(nums, "...")
		case n == pager.Current():
			nums = append(nums, "["+strconv.Itoa(n)+"]")
		default:
			nums = append(nums, strconv.Itoa(n))
		}
	}
	fmt.Printf("\nPage %d of %d (%d posts): %s\n",
		pager.Current(), pager.Total(), res.Pagination.TotalPosts, strings.Join(nums, " "))
}

func cmdPosts(ctx context.Context, c *journal.Client, args []string) error {
	page, limit, err := pageArgs(args)
	if err != nil {
		return err
	}
	res, err := c.ListPosts(ctx, page, limit)
	if err != nil {
		return err
	}
	printPosts(res)
	return nil
}

func cmdCategory(ctx context.Context, c *journal.Client, args []string) error {
	if len(args) < 1 {
		return usageError("journal category <name> [page] [limit]")
	}
	page, limit, err := pageArgs(args[1:])
	if err != nil {
		return err
	}
	res, err := c.ListPostsByCategory(ctx, args[0], page, limit)
	if err != nil {
		return err
	}
	printPosts(res)
	return nil
}

func cmdPost(ctx context.Context, c *journal.Client, args []string) error {
	if len(args) != 1 {
		return usageError("journal post <slug>")
	}
	p, err := c.GetPost(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s | %s\n\n%s\n\n%s\n\n", p.Title, p.Category, p.CreatedAt.Format("January 2, 2006"), p.Excerpt, p.FullStory)
	for _, l := range journal.ShareLinks(c.Config.SiteURL, p) {
		fmt.Printf("%-9s %s\n", l.Name, l.URL)
	}
	return nil
}

// postFlags are shared by create and update. Unset flags stay nil so update
// only sends what was given.
type postFlags struct {
	fs        *flag.FlagSet
	title     string
	excerpt   string
	storyFile string
	category  string
	image     string
	newSlug   string
}

func newPostFlags(name string, withSlug bool) *postFlags {
	f := &postFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.StringVar(&f.title, "title", "", "post title")
	f.fs.StringVar(&f.excerpt, "excerpt", "", "short summary")
	f.fs.StringVar(&f.storyFile, "story-file", "", "file with the full story")
	f.fs.StringVar(&f.category, "category", "", "Life, Personal, Travel or Inspiration")
	f.fs.StringVar(&f.image, "image", "", "featured image file")
	if withSlug {
		f.fs.StringVar(&f.newSlug, "new-slug", "", "rename the post")
	}
	return f
}

// set returns a pointer to the flag's value when it was given.
func (f *postFlags) set(name, v string) *string {
	given := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			given = true
		}
	})
	if !given {
		return nil
	}
	return &v
}

func (f *postFlags) story() (*string, error) {
	if f.storyFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.storyFile)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

func (f *postFlags) upload() (*journal.Upload, error) {
	if f.image == "" {
		return nil, nil
	}
	up, err := journal.OpenUpload(f.image)
	if err != nil {
		return nil, err
	}
	return &up, nil
}

func cmdCreate(ctx context.Context, c *journal.Client, args []string) error {
	f := newPostFlags("create", false)
	if err := f.fs.Parse(args); err != nil {
		return usageError("%v", err)
	}
	story, err := f.story()
	if err != nil {
		return err
	}
	img, err := f.upload()
	if err != nil {
		return err
	}
	in := journal.PostInput{
		Title:    f.title,
		Excerpt:  f.excerpt,
		Category: f.category,
		Image:    img,
	}
	if story != nil {
		in.FullStory = *story
	}
	p, err := c.CreatePost(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("Published %s\n", journal.PostURL(c.Config.SiteURL, p.Slug))
	return nil
}

func cmdUpdate(ctx context.Context, c *journal.Client, args []string) error {
	if len(args) < 1 {
		return usageError("journal update <slug> [flags]")
	}
	slug := args[0]
	f := newPostFlags("update", true)
	if err := f.fs.Parse(args[1:]); err != nil {
		return usageError("%v", err)
	}
	story, err := f.story()
	if err != nil {
		return err
	}
	img, err := f.upload()
	if err != nil {
		return err
	}
	in := journal.PostUpdate{
		Title:     f.set("title", f.title),
		Excerpt:   f.set("excerpt", f.excerpt),
		FullStory: story,
		Category:  f.set("category", f.category),
		NewSlug:   f.set("new-slug", f.newSlug),
		Image:     img,
	}
	if in.Empty() {
		return usageError("nothing to update")
	}
	p, err := c.UpdatePost(ctx, slug, in)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s\n", journal.PostURL(c.Config.SiteURL, p.Slug))
	return nil
}

func cmdDelete(ctx context.Context, c *journal.Client, args []string) error {
	if len(args) != 1 {
		return usageError("journal delete <slug>")
	}
	if err := c.DeletePost(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func cmdProfile(ctx context.Context, c *journal.Client, _ []string) error {
	p, err := c.GetProfile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s, %s\n%s\n\n%s\n", p.AuthorName, p.AuthorTitle, p.AuthorSlogan, p.AuthorBio)
	for _, l := range [][2]string{
		{"Email", p.Email},
		{"X", p.XURL()},
		{"Instagram", p.InstagramURL()},
		{"Facebook", p.Facebook},
		{"Portfolio", p.PortfolioURL()},
	} {
		if l[1] != "" {
			fmt.Printf("%-10s %s\n", l[0], l[1])
		}
	}
	return nil
}

func cmdSite(ctx context.Context, c *journal.Client, _ []string) error {
	s, err := c.GetSite(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s: %s\n%s\n", s.WebsiteName, s.BannerTitle, s.BannerSlogan, s.BannerBio)
	return nil
}

func cmdFeed(ctx context.Context, c *journal.Client, _ []string) error {
	site, err := c.GetSite(ctx)
	if err != nil {
		return err
	}
	posts, err := c.AllPosts(ctx, 50)
	if err != nil {
		return err
	}
	return journal.WriteRSS(os.Stdout, site, c.Config.SiteURL, posts)
}

func cmdSitemap(ctx context.Context, c *journal.Client, _ []string) error {
	posts, err := c.AllPosts(ctx, 50)
	if err != nil {
		return err
	}
	return journal.WriteSitemap(os.Stdout, c.Config.SiteURL, posts)
}

// runDevServer serves the in-memory API on addr until ctx is done.
func runDevServer(ctx context.Context, addr string) error {
	api := journaltest.NewAPI()
	api.AddPost(journal.Post{
		Title:     "Hello, journal",
		Excerpt:   "The first story on a fresh install.",
		FullStory: "Edit or delete this post from the dashboard once you have signed in.",
		Category:  string(journal.CategoryLife),
		Image:     "/uploads/hello.jpg",
	})
	fmt.Printf("Dev API on http://localhost%s%s (admin %s / %s)\n",
		addr, journaltest.Prefix, journaltest.AdminEmail, journaltest.AdminPassword)

	errCh := make(chan error, 1)
	go func() { errCh <- api.Echo.Start(addr) }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return api.Echo.Shutdown(shutdownCtx)
	}
}
