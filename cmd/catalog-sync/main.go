package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/upstream"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
	catalogUseCase "github.com/amirhossein-jamali/game-portal/internal/domain/usecase/catalog"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/bootstrap"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/config"
)

// Exit codes
const (
	exitOK          = 0
	exitSyncFailed  = 1
	exitUsage       = 2
	exitSetupFailed = 3
)

type options struct {
	dryRun  bool
	quiet   bool
	timeout time.Duration
	v       *viper.Viper
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := config.Load(opts.v)
	if err != nil {
		fmt.Fprintf(stderr, "configuration: %v\n", err)
		return exitSetupFailed
	}
	syncOpts, err := syncOptions(cfg, opts.dryRun)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	var appLogger coreport.Logger
	if opts.quiet {
		appLogger = logger.NewNoopLogger()
	} else {
		appLogger = bootstrap.NewLogger(cfg)
	}
	defer func() { _ = appLogger.Flush() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	tp, err := bootstrap.NewTimeProvider(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitSetupFailed
	}
	catalogConfig, err := bootstrap.CatalogConfig(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitSetupFailed
	}
	catalogConfig.SyncTimeout = opts.timeout

	dbManager := database.NewManager(database.NewConfig(cfg), appLogger, tp)
	if _, err := dbManager.Connect(ctx); err != nil {
		fmt.Fprintf(stderr, "database: %v\n", err)
		return exitSetupFailed
	}
	defer dbManager.Close()

	if err := prepareSchema(ctx, dbManager, opts.dryRun); err != nil {
		fmt.Fprintf(stderr, "database: %v\n", err)
		return exitSetupFailed
	}

	gamesClient, closeCache := bootstrap.NewGamesClient(ctx, cfg, tp, appLogger)
	defer func() { _ = closeCache() }()

	service := catalogUseCase.NewService(gamesClient, dbManager.CreateUnitOfWork(), catalogConfig, tp, appLogger)

	started := time.Now()
	result, err := service.Sync(ctx, syncOpts)
	if err != nil {
		fmt.Fprintf(stderr, "catalog sync failed: %s\n", failureReason(err))
		return exitSyncFailed
	}

	printSummary(stdout, syncOpts, result, time.Since(started))
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := pflag.NewFlagSet("catalog-sync", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: catalog-sync [flags]")
		fmt.Fprintln(stderr, "Fetches the upstream game list, deduplicates it and reconciles the game_catalog table.")
		fs.PrintDefaults()
	}

	fs.String("img", "", "image style: game_img_1, game_img_2, game_img_5 or game_img_6 (default from config)")
	fs.String("cdn-url", "", "CDN base url passed to the games API")
	fs.Bool("prune", false, "delete catalog entries no longer present upstream")
	dryRun := fs.Bool("dry-run", false, "compute the changes and roll them back")
	quiet := fs.Bool("quiet", false, "suppress logs, print only the summary")
	timeout := fs.Duration("timeout", 5*time.Minute, "overall deadline for the run")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *timeout <= 0 {
		return nil, errors.New("--timeout must be positive")
	}

	v := viper.New()
	for key, flag := range map[string]string{
		"catalog.defaultImageStyle": "img",
		"catalog.cdnUrl":            "cdn-url",
		"catalog.prune":             "prune",
	} {
		if f := fs.Lookup(flag); f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	return &options{dryRun: *dryRun, quiet: *quiet, timeout: *timeout, v: v}, nil
}

type schemaPreparer interface {
	CheckSchema(ctx context.Context) error
	Migrate(ctx context.Context, seed bool) error
}

// prepareSchema migrates before a real run. A dry run leaves the schema alone and
// only requires it to be current.
func prepareSchema(ctx context.Context, db schemaPreparer, dryRun bool) error {
	if dryRun {
		return db.CheckSchema(ctx)
	}
	return db.Migrate(ctx, false)
}

func syncOptions(cfg *config.Config, dryRun bool) (usecase.SyncOptions, error) {
	style, err := upstream.ParseImageStyle(cfg.Catalog.DefaultImageStyle, upstream.ImageStyle1)
	if err != nil {
		return usecase.SyncOptions{}, fmt.Errorf("--img: %w", err)
	}
	return usecase.SyncOptions{
		ImageStyle: style,
		CDNURL:     cfg.Catalog.CDNURL,
		DryRun:     dryRun,
		Prune:      cfg.Catalog.Prune,
	}, nil
}

func failureReason(err error) string {
	var uerr *errs.UpstreamError
	if errors.As(err, &uerr) {
		return uerr.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	return err.Error()
}

func printSummary(w io.Writer, opts usecase.SyncOptions, result *entity.SyncResult, elapsed time.Duration) {
	mode := "applied"
	if result.DryRun {
		mode = "dry run, rolled back"
	}
	fmt.Fprintf(w, "Catalog sync (%s, img=%s, prune=%t)\n", mode, opts.ImageStyle, opts.Prune)
	fmt.Fprintf(w, "  fetched:   %d\n", result.Fetched)
	fmt.Fprintf(w, "  unique:    %d\n", result.Unique)
	fmt.Fprintf(w, "  inserted:  %d\n", result.Inserted)
	fmt.Fprintf(w, "  updated:   %d\n", result.Updated)
	fmt.Fprintf(w, "  unchanged: %d\n", result.Unchanged)
	fmt.Fprintf(w, "  pruned:    %d\n", result.Pruned)
	fmt.Fprintf(w, "  elapsed:   %s\n", elapsed.Round(time.Millisecond))
}
