package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lotas/salonreviews/internal/applog"
	"github.com/lotas/salonreviews/internal/archive"
	"github.com/lotas/salonreviews/internal/config"
	"github.com/lotas/salonreviews/internal/export"
	"github.com/lotas/salonreviews/internal/fetch"
	"github.com/lotas/salonreviews/internal/reviews"
	"github.com/lotas/salonreviews/internal/seed"
	"github.com/lotas/salonreviews/internal/server"
	"github.com/lotas/salonreviews/internal/snapshot"
	"github.com/lotas/salonreviews/internal/storage"
	"github.com/lotas/salonreviews/internal/tui"
	"github.com/lotas/salonreviews/internal/types"
	"github.com/lotas/salonreviews/internal/viewport"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		}
	}

	cfg := loadConfig()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "artists":
			runArtists(cfg)
			return
		case "reviews":
			runReviews(cfg, os.Args[2:])
			return
		case "import":
			runImport(cfg, os.Args[2:])
			return
		case "fetch-review":
			runFetchReview(cfg, os.Args[2:])
			return
		case "seed":
			runSeed(cfg)
			return
		}
	}

	fs := flag.NewFlagSet("salonreviews", flag.ExitOnError)
	selectFlag := fs.String("select", cfg.UI.Select, "Stylist to select at startup (id or name)")
	liveMode := fs.Bool("live", cfg.Live.Enabled, "Accept the front desk feed")
	port := fs.Int("port", cfg.Live.Port, "WebSocket port for live mode")
	pad := fs.Int("pad", cfg.Indicator.Pad, "Pill padding in cells")
	fs.Parse(os.Args[1:])

	if err := checkFlags(*pad, *port); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	size, ok := viewport.Probe(int(os.Stdout.Fd()))
	if !ok {
		fmt.Fprintln(os.Stderr, "salonreviews needs a terminal. Use 'salonreviews reviews' for plain output.")
		os.Exit(1)
	}
	viewport.Default.Publish(size)

	if err := applog.Init(cfg.Log.Dir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: event log disabled: %v\n", err)
	}
	defer applog.Close()

	db := openDB(cfg)
	defer db.Close()

	if seeded, err := seed.IfEmpty(db); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding database: %v\n", err)
		os.Exit(1)
	} else if seeded {
		applog.Info("startup.seeded")
	}

	initial := resolveSelection(db, *selectFlag)

	var srv *server.Server
	if *liveMode {
		srv = server.New(*port)
	}

	model := tui.NewModel(tui.Options{
		DB:       db,
		Server:   srv,
		Pad:      *pad,
		Emphasis: cfg.Indicator.EmphasisWindow,
		Select:   initial,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	final, err := p.Run()
	if m, ok := final.(tui.Model); ok {
		m.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Print(`salonreviews — stylist reviews in the terminal

Usage:
  salonreviews                                         Start the TUI (default)
    --select <stylist>     Stylist to select at startup, by id or name
    --live                 Accept the front desk feed
    --port <n>             WebSocket port for live mode (default: 19192)
    --pad <n>              Pill padding in cells (default: 1)

  salonreviews artists                                 List stylists

  salonreviews reviews                                 Export reviews to stdout or file
    --artist <stylist>     Only this stylist's reviews
    --json                 Export as JSON instead of markdown
    --out <file>           Output file path (default: stdout)
    --lz4                  Compress the output file with lz4

  salonreviews import <file>                           Replace the catalog with a JSON export
                                                       (.lz4 files are decompressed)

  salonreviews fetch-review <url>...                   Import reviews published on web pages
    --artist <stylist>     Stylist the reviews belong to (required)
    --rating <1-5>         Rating to record (required)
    --service <name>       Service that was reviewed
    --user <name>          Reviewer name (default: the page host)

  salonreviews seed                                    Replace the catalog with demo data

Config:
  ~/.config/salonreviews/config.toml, or the file named by SALONREVIEWS_CONFIG.

Environment:
  SALONREVIEWS_DATABASE_PATH          SQLite database (default: ~/.local/share/salonreviews/salonreviews.db)
  SALONREVIEWS_INDICATOR_PAD          Pill padding in cells
  SALONREVIEWS_INDICATOR_EMPHASIS_WINDOW  How long the pill stays emphasized (default: 600ms)
  SALONREVIEWS_LIVE_PORT              WebSocket port for live mode
`)
}

func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

func openDB(cfg config.Config) *sql.DB {
	db, err := storage.OpenDB(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return db
}

// resolveSelection maps a stylist id or name to an id. A near miss is
// accepted with a notice; anything else falls back to "All".
func resolveSelection(db *sql.DB, query string) string {
	if query == "" {
		return ""
	}
	artists, err := storage.ListArtists(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing stylists: %v\n", err)
		os.Exit(1)
	}
	a, exact, found := reviews.MatchArtist(artists, query)
	switch {
	case !found:
		fmt.Fprintf(os.Stderr, "Unknown stylist %q, showing all reviews.\n", query)
		return ""
	case !exact:
		fmt.Fprintf(os.Stderr, "Using %s (%s) for %q.\n", a.Name, a.ID, query)
	}
	return a.ID
}

// lookupArtist resolves a stylist flag for the plain subcommands and exits on
// anything but an exact match.
func lookupArtist(db *sql.DB, query string) types.Artist {
	artists, err := storage.ListArtists(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing stylists: %v\n", err)
		os.Exit(1)
	}
	a, exact, found := reviews.MatchArtist(artists, query)
	if !found {
		fmt.Fprintf(os.Stderr, "Unknown stylist %q.\n", query)
		os.Exit(1)
	}
	if !exact {
		fmt.Fprintf(os.Stderr, "Unknown stylist %q. Did you mean %s (%s)?\n", query, a.Name, a.ID)
		os.Exit(1)
	}
	return a
}

// reorderArgs moves flag arguments before positional arguments so that
// flag.Parse handles them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			flags = append(flags, args[i])
			if !strings.Contains(args[i], "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") && !isBoolFlag(args[i]) {
				flags = append(flags, args[i+1])
				i++
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}

func isBoolFlag(arg string) bool {
	switch strings.TrimLeft(arg, "-") {
	case "json", "lz4", "live":
		return true
	}
	return false
}

func runArtists(cfg config.Config) {
	db := openDB(cfg)
	defer db.Close()

	cat, err := storage.LoadCatalog(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(cat.Artists) == 0 {
		fmt.Println("No stylists yet. Run 'salonreviews seed' for demo data.")
		return
	}
	for _, a := range cat.Artists {
		shown := reviews.Filter(cat.Reviews, a.ID)
		fmt.Printf("%-12s %-20s ★ %s (%d reviews)\n", a.ID, a.Name, reviews.Average(shown), len(shown))
	}
}

func runReviews(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("reviews", flag.ExitOnError)
	artistFlag := fs.String("artist", "", "Only this stylist's reviews")
	jsonFlag := fs.Bool("json", false, "Export as JSON instead of markdown")
	outFile := fs.String("out", "", "Output file path (default: stdout)")
	compress := fs.Bool("lz4", false, "Compress the output file with lz4")
	fs.Parse(args)

	if *compress && *outFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --lz4 needs --out")
		os.Exit(2)
	}

	db := openDB(cfg)
	defer db.Close()

	artistID := ""
	if *artistFlag != "" {
		artistID = lookupArtist(db, *artistFlag).ID
	}

	cat, err := storage.LoadCatalog(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var output string
	if *jsonFlag {
		output, err = export.JSON(cat, artistID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating JSON: %v\n", err)
			os.Exit(1)
		}
	} else {
		output = export.Markdown(cat, artistID)
	}

	if *outFile == "" {
		fmt.Print(output)
		return
	}
	path := *outFile
	if *compress && filepath.Ext(path) != archive.Ext {
		path += archive.Ext
	}
	if err := archive.WriteFile(path, []byte(output), *compress); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
}

func runImport(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	fs.Parse(reorderArgs(args))
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: salonreviews import <file>")
		os.Exit(2)
	}

	data, err := archive.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}
	cat, err := export.ParseJSON(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing export: %v\n", err)
		os.Exit(1)
	}

	db := openDB(cfg)
	defer db.Close()

	applied, diff, err := snapshot.Apply(db, cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(snapshot.Format(diff))
	if applied {
		fmt.Printf("\nImported %d stylists and %d reviews\n", len(cat.Artists), len(cat.Reviews))
	}
}

func runFetchReview(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("fetch-review", flag.ExitOnError)
	artistFlag := fs.String("artist", "", "Stylist the reviews belong to")
	rating := fs.Int("rating", 0, "Rating to record (1-5)")
	service := fs.String("service", "", "Service that was reviewed")
	user := fs.String("user", "", "Reviewer name (default: the page host)")
	fs.Parse(reorderArgs(args))

	if *artistFlag == "" || fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: salonreviews fetch-review --artist <stylist> --rating <1-5> <url>...")
		os.Exit(2)
	}
	if *rating < types.MinRating || *rating > types.MaxRating {
		fmt.Fprintf(os.Stderr, "Error: --rating must be %d-%d\n", types.MinRating, types.MaxRating)
		os.Exit(2)
	}

	if err := applog.Init(cfg.Log.Dir); err == nil {
		defer applog.Close()
	}

	db := openDB(cfg)
	defer db.Close()
	artist := lookupArtist(db, *artistFlag)

	reqs := make([]fetch.Request, 0, fs.NArg())
	for _, u := range fs.Args() {
		reqs = append(reqs, fetch.Request{
			URL:      u,
			ArtistID: artist.ID,
			Rating:   *rating,
			Service:  *service,
			UserName: *user,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "Fetching %d page(s) for %s...\n", len(reqs), artist.Name)
	fetched, err := fetch.Reviews(ctx, reqs, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, r := range fetched {
		if err := storage.InsertReview(db, r); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving review %s: %v\n", r.ID, err)
			os.Exit(1)
		}
		fmt.Printf("+ %s %s · %d chars\n", reviews.Stars(r.Rating), r.UserName, len([]rune(r.Text)))
	}
}

func runSeed(cfg config.Config) {
	db := openDB(cfg)
	defer db.Close()

	if err := seed.Load(db); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding: %v\n", err)
		os.Exit(1)
	}
	n, err := storage.CountReviews(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded demo catalog with %d reviews\n", n)
}

// checkFlags rejects command-line overrides that config.Validate would refuse.
func checkFlags(pad, port int) error {
	if pad < 0 {
		return fmt.Errorf("--pad must be >= 0, got %d", pad)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("--port must be between 1 and 65535, got %d", port)
	}
	return nil
}
