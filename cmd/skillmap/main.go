// Package main provides the skillmap command line entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/skillmapio/skillmap/internal/config"
	"github.com/skillmapio/skillmap/internal/db/sqlite"
	"github.com/skillmapio/skillmap/internal/pipeline"
	"github.com/skillmapio/skillmap/internal/server"
	"github.com/skillmapio/skillmap/internal/xapi"
	"github.com/skillmapio/skillmap/pkg/models"
)

// Version is set at build time via ldflags.
var Version = "dev"

const usageText = `skillmap - turn bookmarked posts into a ranked skill map

Usage:
  skillmap <command> [flags]

Commands:
  fetch     Fetch bookmarks from the X API into the local cache
  analyze   Run the analysis pipeline over cached posts
  serve     Start the HTTP skill API
  export    Write the latest skill map as JSON

Run 'skillmap <command> -h' for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "fetch":
		err = runFetch(os.Args[2:])
	case "analyze":
		err = runAnalyze(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Fprint(os.Stderr, usageText)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usageText)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

// setupLogging configures the global zerolog logger. Logs always go to
// stderr so exported JSON on stdout stays parseable.
func setupLogging(debug bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})
}

// loadConfig ensures the data directory exists and loads settings with env
// overrides applied.
func loadConfig() (*config.Config, error) {
	if err := config.EnsureAll(); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load settings, using defaults")
		cfg = config.Default()
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*sqlite.Store, error) {
	return sqlite.NewStore(sqlite.StoreConfig{
		Path:     config.DBPath(),
		MaxConns: cfg.MaxConns,
		WALMode:  true,
	})
}

func newAnalyzer(cfg *config.Config) (*pipeline.Analyzer, error) {
	lexicon, err := config.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	return pipeline.New(pipeline.Options{
		MinClusterSize:   cfg.MinClusterSize,
		RelatedThreshold: cfg.RelatedThreshold,
		Lexicon:          lexicon,
	}), nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down")
		cancel()
	}()
	return ctx, cancel
}

func runFetch(args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	limit := fs.Int("limit", 0, "Number of bookmarks to fetch (default from settings)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Parse(args)
	setupLogging(*debug)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.APIToken == "" {
		return fmt.Errorf("no API token: set api_token in %s or SKILLMAP_API_TOKEN", config.SettingsPath())
	}
	count := cfg.FetchLimit
	if *limit > 0 {
		count = *limit
	}

	opts := []xapi.ClientOption{}
	if cfg.APIBaseURL != "" {
		opts = append(opts, xapi.WithBaseURL(cfg.APIBaseURL))
	}
	client, err := xapi.NewClient(cfg.APIToken, opts...)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	usage := &xapi.UsageCounter{}
	posts, err := client.FetchBookmarks(ctx, count, usage)
	if err != nil {
		return fmt.Errorf("fetch bookmarks: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := sqlite.NewPostStore(store).ReplaceAll(ctx, posts); err != nil {
		return fmt.Errorf("cache posts: %w", err)
	}

	log.Info().
		Int("posts", len(posts)).
		Int("requests", usage.Requests).
		Msg("Bookmarks cached")
	fmt.Fprintf(os.Stderr, "Fetched %d posts in %d requests (~$%.3f)\n",
		usage.Posts, usage.Requests, usage.EstimatedCost())
	return nil
}

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Parse(args)
	setupLogging(*debug)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	svc := server.New(cfg, store, analyzer, Version)
	return svc.Reanalyze(ctx)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 0, "Listen port (default from settings)")
	watch := fs.Bool("watch", false, "Re-analyze when the lexicon file changes")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Parse(args)
	setupLogging(*debug)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if *port > 0 {
		cfg.ServerPort = *port
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	watchPath := ""
	if *watch {
		if cfg.LexiconPath == "" {
			return fmt.Errorf("--watch requires lexicon_path in settings")
		}
		watchPath = cfg.LexiconPath
	}

	ctx, cancel := signalContext()
	defer cancel()

	svc := server.New(cfg, store, analyzer, Version)
	return svc.Start(ctx, watchPath)
}

type exportDocument struct {
	GeneratedAt time.Time           `json:"generatedAt"`
	Run         *models.AnalysisRun `json:"run,omitempty"`
	Skills      []*models.Skill     `json:"skills"`
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "Output file (default: stdout)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Parse(args)
	setupLogging(*debug)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	ctx, cancel := signalContext()
	defer cancel()

	skillStore := sqlite.NewSkillStore(store)
	run, err := skillStore.LatestRun(ctx)
	if err != nil {
		return fmt.Errorf("load latest run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("no analysis run found, run 'skillmap analyze' first")
	}
	skills, err := skillStore.SkillsByRun(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("load skills: %w", err)
	}

	doc := exportDocument{
		GeneratedAt: run.StartedAt,
		Run:         run,
		Skills:      skills,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode skill map: %w", err)
	}
	data = append(data, '\n')

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Info().Str("path", *out).Int("skills", len(skills)).Msg("Skill map exported")
	return nil
}
