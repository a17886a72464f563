package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/imdb-data/internal/business"
	"github.com/Agurato/imdb-data/internal/infrastructure"
)

func main() {
	godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Dependencies holds what commands need to run
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Catalog *business.CatalogManager
}

// CLI defines the command-line interface
type CLI struct {
	BaseURL     string        `name:"base-url" env:"IMDB_BASE_URL" default:"https://www.imdb.com" help:"Site to fetch pages from"`
	UserAgent   string        `name:"user-agent" env:"USER_AGENT" help:"User-agent header sent with requests"`
	Timeout     time.Duration `env:"FETCH_TIMEOUT" default:"10s" help:"Timeout of each request"`
	CachePath   string        `name:"cache" env:"CACHE_PATH" help:"Directory where fetched pages are cached"`
	CacheTTL    time.Duration `name:"cache-ttl" env:"CACHE_TTL" default:"1h" help:"How long cached pages are used"`
	CastLimit   int           `name:"cast" env:"CAST_LIMIT" default:"2" help:"Number of cast members"`
	ReviewLimit int           `name:"reviews" env:"REVIEW_LIMIT" default:"5" help:"Number of reviews"`
	SearchLimit int           `name:"results" env:"SEARCH_LIMIT" default:"5" help:"Number of search results"`
	Verbose     bool          `short:"v" help:"Log requests to stderr"`

	Title   TitleCmd   `cmd:"" help:"Show a movie or TV show"`
	Reviews ReviewsCmd `cmd:"" help:"Show the user reviews of a movie or TV show"`
	Search  SearchCmd  `cmd:"" help:"Search titles"`
}

// TitleCmd is the "title" subcommand
type TitleCmd struct {
	ID string `arg:"" help:"Title ID, e.g. tt0111161"`
}

// ReviewsCmd is the "reviews" subcommand
type ReviewsCmd struct {
	ID string `arg:"" help:"Title ID, e.g. tt0111161"`
}

// SearchCmd is the "search" subcommand
type SearchCmd struct {
	Query []string `arg:"" help:"Words to search for"`
}

// Run parses args and executes the selected command
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("imdbq"),
		kong.Description("Query IMDb titles, reviews and search results as JSON."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'imdbq --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()

	opts := []infrastructure.Option{
		infrastructure.WithBaseURL(cli.BaseURL),
		infrastructure.WithTimeout(cli.Timeout),
		infrastructure.WithRate(0),
	}
	if cli.UserAgent != "" {
		opts = append(opts, infrastructure.WithUserAgent(cli.UserAgent))
	}
	if cli.CachePath != "" {
		opts = append(opts, infrastructure.WithCache(infrastructure.NewCache(cli.CachePath, cli.CacheTTL)))
	}
	deps.Catalog = business.NewCatalogManager(
		infrastructure.NewIMDbClient(opts...),
		business.NewAssembler(business.Caps{Cast: cli.CastLimit, Reviews: cli.ReviewLimit, Search: cli.SearchLimit}),
	)

	return kongCtx.Run(deps)
}

// Run executes the title command
func (c *TitleCmd) Run(deps *Dependencies) error {
	title, err := deps.Catalog.GetTitle(deps.Ctx, c.ID)
	if err != nil {
		return err
	}
	return writeJSON(deps.Stdout, title)
}

// Run executes the reviews command
func (c *ReviewsCmd) Run(deps *Dependencies) error {
	reviews, err := deps.Catalog.GetReviews(deps.Ctx, c.ID)
	if err != nil {
		return err
	}
	return writeJSON(deps.Stdout, reviews)
}

// Run executes the search command
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Catalog.Search(deps.Ctx, strings.Join(c.Query, " "))
	if err != nil {
		return err
	}
	return writeJSON(deps.Stdout, results)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
