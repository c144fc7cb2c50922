package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dnswlt/egeria/internal/archive"
	"github.com/dnswlt/egeria/internal/client"
	"github.com/dnswlt/egeria/internal/config"
	"github.com/dnswlt/egeria/internal/docs"
	"github.com/dnswlt/egeria/internal/fvt"
	"github.com/dnswlt/egeria/internal/gitclient"
	"github.com/dnswlt/egeria/internal/handler"
	"github.com/dnswlt/egeria/internal/repository"
	"github.com/dnswlt/egeria/internal/rest"
	"github.com/dnswlt/egeria/internal/rules"
	"github.com/dnswlt/egeria/internal/store"
	"github.com/dnswlt/egeria/internal/typedefs"
	"github.com/peterbourgon/ff/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is the application version.
	// It is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
)

const commands = "serve, write-archive, gen-docs, fvt"

func gitClientAuthFromEnv() *gitclient.Auth {
	user := os.Getenv("EGERIA_GIT_USER")
	if user == "" {
		return nil
	}
	return &gitclient.Auth{
		Username: user,
		Password: os.Getenv("EGERIA_GIT_PASSWORD"),
	}
}

// Options contains program options that can be set via command-line flags or environment variables.
type Options struct {
	Addr       string
	RootDir    string
	GitURL     string
	GitRef     string
	ConfigFile string
	Verbose    bool
}

func (o *Options) registerStoreFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.RootDir, "root-dir", ".", "Root directory of the local data store")
	fs.StringVar(&o.GitURL, "git-url", "", "URL of the git repository to use as the (read-only) data store")
	fs.StringVar(&o.GitRef, "git-ref", "main", "Git ref (branch or tag) to read from")
	fs.BoolVar(&o.Verbose, "verbose", false, "Enable debug logging")
}

func parseFlags(fs *flag.FlagSet, args []string) {
	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("EGERIA")); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func main() {
	if len(os.Args) < 2 {
		// Default to "serve"
		runServe(os.Args[1:])
		return
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "write-archive":
		runWriteArchive(os.Args[2:])
	case "gen-docs":
		runGenDocs(os.Args[2:])
	case "fvt":
		runFVT(os.Args[2:])
	default:
		// Also default to serve if the argument looks like a flag
		if strings.HasPrefix(os.Args[1], "-") {
			runServe(os.Args[1:])
			return
		}
		fmt.Fprintf(os.Stderr, "Unknown command %q. Available commands: %s\n", os.Args[1], commands)
		os.Exit(1)
	}
}

func runServe(args []string) {
	var opts Options
	fs := flag.NewFlagSet("egeria serve", flag.ExitOnError)
	fs.StringVar(&opts.Addr, "addr", "localhost:9443", "Address to listen on")
	fs.StringVar(&opts.ConfigFile, "config", "", "Path to the configuration YAML file (relative to git root or local -root-dir). Defaults apply if empty.")
	opts.registerStoreFlags(fs)
	parseFlags(fs, args)

	logger := newLogger(opts.Verbose)
	defer logger.Sync()
	logger.Info("Starting metadata server", zap.String("version", Version), zap.Any("options", opts))

	st := openStore(opts, logger)
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(st, opts.ConfigFile); err != nil {
			logger.Fatal("Could not load config", zap.Error(err))
		}
	}

	types := typedefs.MustLoad()
	ruleSet, err := rules.Compile(cfg.Repository.AdmissionRules, types)
	if err != nil {
		logger.Fatal("Invalid admission rules", zap.Error(err))
	}
	repo := repository.New(types, repository.Options{
		MaxPageSize: cfg.Repository.MaxPageSize,
		Rules:       ruleSet,
		Logger:      logger.Named("repository"),
	})

	// All archives must load before the server starts.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	archives, err := archive.LoadAll(ctx, st, cfg.Archives, logger)
	cancel()
	if err != nil {
		logger.Fatal("Could not read archives", zap.Error(err))
	}
	if err := archive.ApplyAll(repo, archives, logger); err != nil {
		logger.Fatal("Could not load archives", zap.Error(err))
	}
	entities, relationships := repo.Size()
	logger.Info("Repository ready", zap.Int("entities", entities), zap.Int("relationships", relationships))

	server, err := rest.NewServer(
		rest.ServerOptions{
			Addr:       opts.Addr,
			ServerName: cfg.Server.Name,
			CacheSize:  cfg.REST.FindCacheSize,
		},
		handler.NewService(repo, logger.Named("handler")),
		logger.Named("rest"),
	)
	if err != nil {
		logger.Fatal("Could not create server", zap.Error(err))
	}
	if err := server.Serve(); err != nil { // Never returns
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func runWriteArchive(args []string) {
	var opts Options
	fs := flag.NewFlagSet("egeria write-archive", flag.ExitOnError)
	fs.StringVar(&opts.RootDir, "root-dir", ".", "Root directory of the local data store")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")
	var path, created string
	fs.StringVar(&path, "out", "archives/coco-reference-data.yml", "Archive file to write (relative to -root-dir)")
	fs.StringVar(&created, "creation-date", "", "Creation date of the archive (RFC 3339). Defaults to now.")
	parseFlags(fs, args)

	logger := newLogger(opts.Verbose)
	defer logger.Sync()

	var creationDate time.Time
	if created != "" {
		var err error
		if creationDate, err = time.Parse(time.RFC3339, created); err != nil {
			logger.Fatal("Invalid -creation-date", zap.Error(err))
		}
	}
	st := store.NewDiskStore(opts.RootDir)
	a, err := archive.WriteReferenceArchive(st, path, typedefs.MustLoad(), creationDate)
	if err != nil {
		logger.Fatal("Failed to write archive", zap.Error(err))
	}
	logger.Info("Wrote archive",
		zap.String("name", a.Header.Name),
		zap.String("version", a.Header.Version),
		zap.String("path", path),
		zap.Int("entities", len(a.Entities)),
		zap.Int("relationships", len(a.Relationships)))
}

func runGenDocs(args []string) {
	var opts Options
	fs := flag.NewFlagSet("egeria gen-docs", flag.ExitOnError)
	opts.registerStoreFlags(fs)
	var archivePath, outputDir string
	fs.StringVar(&archivePath, "archive", "archives/coco-reference-data.yml", "Archive file to document (relative to git root or local -root-dir)")
	fs.StringVar(&outputDir, "out-dir", "docs", "Output directory for the documentation")
	parseFlags(fs, args)

	logger := newLogger(opts.Verbose)
	defer logger.Sync()

	st := openStore(opts, logger)
	a, err := archive.Read(st, archivePath)
	if err != nil {
		logger.Fatal("Failed to read archive", zap.Error(err))
	}
	if err := a.Validate(typedefs.MustLoad()); err != nil {
		logger.Fatal("Invalid archive", zap.Error(err))
	}
	if err := docs.NewGenerator(a).Generate(store.NewDiskStore(outputDir), ""); err != nil {
		logger.Fatal("Failed to generate documentation", zap.Error(err))
	}
	logger.Info("Documentation generated", zap.String("archive", a.Header.Name), zap.String("outDir", outputDir))
}

func runFVT(args []string) {
	fs := flag.NewFlagSet("egeria fvt", flag.ExitOnError)
	var platformURL, serverName, userID string
	var verbose bool
	var timeout time.Duration
	fs.StringVar(&platformURL, "platform-url", "http://localhost:9443", "URL of the platform hosting the metadata server")
	fs.StringVar(&serverName, "server", config.DefaultServerName, "Name of the metadata server")
	fs.StringVar(&userID, "user", "erinoverview", "User to run the verification as")
	fs.DurationVar(&timeout, "timeout", 2*time.Minute, "Maximum duration of the run")
	fs.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	parseFlags(fs, args)

	logger := newLogger(verbose)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	api := client.NewHTTPClient(platformURL, serverName)
	if err := fvt.NewRunner(api, userID, logger).RunAll(ctx); err != nil {
		logger.Fatal("Functional verification failed", zap.Error(err))
	}
	logger.Info("Functional verification passed", zap.String("platformURL", platformURL), zap.String("server", serverName))
}

// openStore returns the store at the configured ref: a clone of -git-url
// if given, else the local -root-dir.
func openStore(opts Options, logger *zap.Logger) store.Store {
	var src store.Source
	if opts.GitURL != "" {
		logger.Info("Cloning git repository", zap.String("url", opts.GitURL), zap.String("ref", opts.GitRef))
		gc, err := gitclient.New(opts.GitURL, gitClientAuthFromEnv())
		if err != nil {
			logger.Fatal("Failed to retrieve git repo", zap.Error(err))
		}
		src = store.NewGitSource(gc, opts.GitRef, "")
	} else {
		logger.Info("Using local store", zap.String("rootDir", opts.RootDir))
		src = store.NewDiskStore(opts.RootDir)
	}
	st, err := src.Store("")
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	return st
}
