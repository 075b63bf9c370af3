package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/psawicki/advault/fs"
	"github.com/psawicki/advault/goquery"
	"github.com/psawicki/advault/htmltomarkdown"
	advaulthttp "github.com/psawicki/advault/http"
	"github.com/psawicki/advault/mem"
	"github.com/psawicki/advault/prom"
	"github.com/psawicki/advault/rod"
	"github.com/psawicki/advault/scrape"
	advaultslog "github.com/psawicki/advault/slog"
	"github.com/psawicki/advault/trafilatura"
)

// downloadRPS paces media downloads within a job.
const downloadRPS = 2.0

func main() {
	ctx := context.Background()

	if err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Run executes the CLI with the given arguments.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Optional; env vars may come from the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(stderr, nil))
	slog.SetDefault(logger)

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("advault"),
		kong.Description("Local archiver for ads from the Meta Ad Library."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	switch kongCtx.Command() {
	case "serve":
		dir := cli.Serve.Dir
		if dir == "" {
			dir = defaultArchiveDir()
		}
		archives := advaultslog.NewLoggingArchiveStore(fs.NewStore(dir), logger)
		deps.Archives = archives

		sessions, err := rod.NewFactory(rod.WithHeadless(cli.Serve.Headless))
		if err != nil {
			return fmt.Errorf("starting browser: %w", err)
		}
		defer sessions.Close()

		metrics := prom.New()
		runner := &scrape.Runner{
			Sessions:   sessions,
			Downloader: advaultslog.NewLoggingDownloader(advaulthttp.NewDownloader(), logger),
			Archive:    archives,
			Extra:      goquery.NewExtraFinder(),
			Fallback:   trafilatura.NewExtractor(),
			Converter:  htmltomarkdown.NewConverter(),
			Limiter:    scrape.NewDownloadLimiter(downloadRPS),
			Metrics:    metrics,
		}
		service := &scrape.Service{
			Store:   mem.NewJobStore(),
			Runner:  runner,
			Metrics: metrics,
		}

		server := advaulthttp.NewServer()
		server.Addr = cli.Serve.Addr
		server.Jobs = service
		server.Archives = archives
		server.Metrics = metrics
		server.Logger = logger
		deps.Server = server

	case "list":
		dir := cli.List.Dir
		if dir == "" {
			dir = defaultArchiveDir()
		}
		deps.Archives = fs.NewStore(dir)
	}

	return kongCtx.Run(deps)
}

// defaultArchiveDir returns ~/AdVault, falling back to the working
// directory when the home directory cannot be resolved.
func defaultArchiveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "AdVault"
	}
	return filepath.Join(home, "AdVault")
}
