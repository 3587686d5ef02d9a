package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eringen/journal"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "init":
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		err = runInit(dir)
	case "dev-server":
		addr := ":5000"
		if len(args) > 0 {
			addr = args[0]
		}
		err = runDevServer(ctx, addr)
	case "version":
		fmt.Printf("journal %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		run, ok := commands[cmd]
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
			printUsage()
			os.Exit(1)
		}
		err = withClient(func(c *journal.Client) error {
			return run(ctx, c, args)
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", journal.UserMessage(err, err.Error()))
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// withClient loads configuration, opens a Client that prints navigation
// targets, and closes it after fn.
func withClient(fn func(*journal.Client) error) error {
	cfg, err := journal.LoadConfig()
	if err != nil {
		return err
	}
	nav := journal.NavigatorFunc(func(route string) {
		fmt.Printf("-> %s\n", route)
	})
	c, err := journal.New(cfg, journal.WithNavigator(nav))
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func printUsage() {
	fmt.Println(`journal - command-line client for a personal blog API

Usage:
  journal <command> [arguments]

Commands:
  login <email>                   Sign in (password from JOURNAL_PASSWORD or stdin)
  logout                          Sign out
  whoami                          Show the signed-in user
  posts [page] [limit]            List posts, newest first
  category <name> [page] [limit]  List posts in a category
  post <slug>                     Show a post
  create [flags]                  Publish a post (-title -excerpt -story-file -category -image)
  update <slug> [flags]           Change a post (same flags plus -new-slug)
  delete <slug>                   Delete a post
  profile                         Show the author profile
  site                            Show the site settings
  feed                            Write an RSS feed of every post to stdout
  sitemap                         Write a sitemap of every post to stdout
  init [dir]                      Write .env.example into dir
  dev-server [addr]               Run an in-memory API for local development
  version                         Print the journal version
  help                            Show this help message

Examples:
  journal init
  journal login admin@example.com
  journal posts 2 10
  journal create -title "Lisbon" -category Travel -story-file lisbon.md -image tram.jpg`)
}
