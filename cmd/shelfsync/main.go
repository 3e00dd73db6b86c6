// Command shelfsync is the terminal client for the sync engine: it keeps
// a local saved-item list under the data directory and syncs it with the
// configured remote store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shelfsync/shelfsync/internal/config"
	"github.com/shelfsync/shelfsync/internal/engine"
	"github.com/shelfsync/shelfsync/internal/export"
	"github.com/shelfsync/shelfsync/internal/logger"
	"github.com/shelfsync/shelfsync/internal/store/local"
	"github.com/shelfsync/shelfsync/internal/store/remote"
)

const usage = `usage: shelfsync <command> [arguments]

commands:
  add <title> [-url URL] [-snippet TEXT]   save an item
  rm <id>                                  remove an item by id
  list                                     print saved items
  search <query>                           filter saved items
  clear                                    remove all items
  sync                                     pull remote changes, then push
  export                                   render items as plain text
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "shelfsync: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	cfg := config.Load()
	log := logger.New("warn", true)

	store, err := local.NewFileStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open data dir %s: %w", cfg.DataDir, err)
	}

	rc, err := remote.FromConfig(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build remote client: %w", err)
	}

	e := engine.New(engine.Options{
		Local:         store,
		Remote:        rc,
		Logger:        log,
		Debounce:      cfg.SyncDebounce,
		RetryCooldown: cfg.RetryCooldown,
	})
	e.Init()
	defer e.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch command {
	case "add":
		return cmdAdd(ctx, e, args)
	case "rm":
		return cmdRemove(ctx, e, args)
	case "list":
		return cmdList(e)
	case "search":
		return cmdSearch(e, args)
	case "clear":
		return cmdClear(ctx, e)
	case "sync":
		return cmdSync(ctx, e)
	case "export":
		fmt.Print(export.Render(e.Items()))
		return nil
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdAdd(ctx context.Context, e *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	url := fs.String("url", "", "item link")
	snippet := fs.String("snippet", "", "short description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("add needs a title")
	}
	title := strings.Join(fs.Args(), " ")

	if !e.Add(title, *url, *snippet) {
		return fmt.Errorf("item %q already saved (or title is blank)", title)
	}
	if err := e.Flush(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "saved locally; remote sync pending, run `shelfsync sync` later")
		return nil
	}
	fmt.Printf("saved %q (%d items)\n", title, len(e.Items()))
	return nil
}

func cmdRemove(ctx context.Context, e *engine.Engine, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("rm needs exactly one item id")
	}
	id := args[0]

	before := len(e.Items())
	e.Remove(id)
	if len(e.Items()) == before {
		return fmt.Errorf("no item with id %s", id)
	}
	if err := e.Flush(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "removed locally; remote sync pending, run `shelfsync sync` later")
		return nil
	}
	fmt.Printf("removed %s (%d items left)\n", id, len(e.Items()))
	return nil
}

func cmdList(e *engine.Engine) error {
	items := e.Items()
	if len(items) == 0 {
		fmt.Println("no saved items")
		return nil
	}
	for _, item := range items {
		fmt.Printf("%s  %-30s %s\n", item.ID, item.Title, item.URL)
	}
	return nil
}

func cmdSearch(e *engine.Engine, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("search needs a query")
	}
	query := strings.ToLower(strings.Join(args, " "))

	found := 0
	for _, item := range e.Items() {
		haystack := strings.ToLower(item.Title + " " + item.URL + " " + item.Snippet)
		if strings.Contains(haystack, query) {
			fmt.Printf("%s  %-30s %s\n", item.ID, item.Title, item.URL)
			found++
		}
	}
	if found == 0 {
		fmt.Println("no matches")
	}
	return nil
}

func cmdClear(ctx context.Context, e *engine.Engine) error {
	e.Clear()
	if err := e.Flush(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "cleared locally; remote sync pending, run `shelfsync sync` later")
		return nil
	}
	fmt.Println("cleared")
	return nil
}

func cmdSync(ctx context.Context, e *engine.Engine) error {
	if err := e.Reconcile(ctx); err != nil {
		return fmt.Errorf("failed to fetch remote state: %w", err)
	}
	if err := e.Flush(ctx); err != nil {
		return fmt.Errorf("failed to push local state: %w", err)
	}
	fmt.Printf("in sync (%d items)\n", len(e.Items()))
	return nil
}
