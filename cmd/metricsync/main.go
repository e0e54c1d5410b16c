package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/metricsync/internal/config"
	apperrors "git.home.luguber.info/inful/metricsync/internal/errors"
	"git.home.luguber.info/inful/metricsync/internal/github"
	"git.home.luguber.info/inful/metricsync/internal/logfields"
	"git.home.luguber.info/inful/metricsync/internal/store"
	"git.home.luguber.info/inful/metricsync/internal/target"
)

var CLI struct {
	Config  string `short:"c" help:"Catalogue file path" default:"targets.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Targets struct {
		Pretty bool `help:"Indent the JSON output"`
	} `cmd:"" help:"Normalize the catalogue and print it as JSON"`

	Validate struct {
		Watch bool `short:"w" help:"Keep running and re-validate on catalogue changes"`
	} `cmd:"" help:"Normalize and validate the catalogue"`

	Init struct {
		Force bool `help:"Overwrite existing catalogue file"`
	} `cmd:"" help:"Initialize a new catalogue file"`

	OpenSource struct {
		Owner  string `required:"" help:"Owner the repositories belong to"`
		Input  string `required:"" help:"JSON array of repository names or {repo,branch,slug} objects"`
		Append bool   `help:"Append the resolved entries to the catalogue instead of printing them"`
		Pretty bool   `help:"Indent the JSON output"`
	} `cmd:"" name:"open-source" help:"Expand an open-source repositories input into catalogue entries"`

	Discover struct {
		Source   string `short:"s" default:"all" enum:"badge,stargazers,all" help:"Discovery source"`
		MaxPages int    `help:"Override the configured page bound"`
		Format   string `short:"f" default:"text" enum:"text,json" help:"Output format"`
		Token    string `env:"GITHUB_TOKEN" help:"GitHub API token"`
	} `cmd:"" help:"Discover candidate repositories without touching the catalogue"`

	Sync struct {
		Source   string        `short:"s" default:"all" enum:"badge,stargazers,all" help:"Discovery source"`
		MaxPages int           `help:"Override the configured page bound"`
		Token    string        `env:"GITHUB_TOKEN" help:"GitHub API token"`
		Every    time.Duration `help:"Repeat the sync on this interval until interrupted"`
		NatsURL  string        `name:"nats-url" help:"Publish sync summaries to this NATS server"`
		Subject  string        `help:"NATS subject for sync summaries" default:""`
		Journal  string        `help:"Record runs in this SQLite journal database"`
	} `cmd:"" help:"Discover new targets and merge them into the catalogue"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch kctx.Command() {
	case "targets":
		err = runTargets(CLI.Config, CLI.Targets.Pretty)
	case "validate":
		if CLI.Validate.Watch {
			err = watchValidate(ctx, CLI.Config)
		} else {
			err = runValidate(CLI.Config)
		}
	case "init":
		err = runInit(CLI.Config, CLI.Init.Force)
	case "open-source":
		err = runOpenSource(CLI.Config, CLI.OpenSource.Owner, CLI.OpenSource.Input, CLI.OpenSource.Append, CLI.OpenSource.Pretty)
	case "discover":
		err = runDiscover(ctx, CLI.Discover.Source, CLI.Discover.MaxPages, CLI.Discover.Format, CLI.Discover.Token)
	case "sync":
		err = runSync(ctx, syncOptions{
			source:   CLI.Sync.Source,
			maxPages: CLI.Sync.MaxPages,
			token:    CLI.Sync.Token,
			every:    CLI.Sync.Every,
			natsURL:  CLI.Sync.NatsURL,
			subject:  CLI.Sync.Subject,
			journal:  CLI.Sync.Journal,
		})
	}

	if err != nil {
		adapter := apperrors.NewCLIErrorAdapter(CLI.Verbose, logger)
		adapter.Report(err)
		os.Exit(adapter.ExitCodeFor(err))
	}
}

// loadCatalogue loads the raw catalogue and produces the validated,
// normalized document alongside it.
func loadCatalogue(configPath string) (*config.Config, target.TargetsDocument, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, target.TargetsDocument{}, err
	}

	policy := target.PolicyFromConfig(cfg.Policy)
	doc, err := target.NormalizeAll(cfg.Targets, policy)
	if err != nil {
		return nil, target.TargetsDocument{}, err
	}
	if err := target.ValidateDocument(doc); err != nil {
		return nil, target.TargetsDocument{}, err
	}
	return cfg, doc, nil
}

func runTargets(configPath string, pretty bool) error {
	_, doc, err := loadCatalogue(configPath)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc.Targets)
}

func runValidate(configPath string) error {
	_, doc, err := loadCatalogue(configPath)
	if err != nil {
		return err
	}
	slog.Info("catalogue is valid", logfields.Path(configPath), logfields.Count(len(doc.Targets)))
	return nil
}

func runInit(configPath string, force bool) error {
	slog.Info("initializing catalogue", logfields.Path(configPath))
	return config.Init(configPath, force)
}

// runOpenSource expands a JSON repositories input into open_source entries
// for one owner. Without --append the normalized targets are printed; with
// it they are validated against the catalogue and appended to the file.
func runOpenSource(configPath, owner, input string, appendEntries, pretty bool) error {
	entries, err := target.ResolveOpenSourceInput(owner, input)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		slog.Info("no open-source repositories in input", logfields.Owner(owner))
		return nil
	}

	if !appendEntries {
		doc, err := target.NormalizeAll(entries, nil)
		if err != nil {
			return err
		}
		if err := target.ValidateDocument(doc); err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		if pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(doc.Targets)
	}

	cfg, _, err := loadCatalogue(configPath)
	if err != nil {
		return err
	}
	policy := target.PolicyFromConfig(cfg.Policy)
	combined := append(append([]config.TargetEntry{}, cfg.Targets...), entries...)
	doc, err := target.NormalizeAll(combined, policy)
	if err != nil {
		return err
	}
	if err := target.ValidateDocument(doc); err != nil {
		return err
	}

	raw, err := config.LoadRaw(configPath)
	if err != nil {
		return err
	}
	raw.Targets = append(raw.Targets, entries...)
	if err := store.New(configPath).Save(raw); err != nil {
		return err
	}
	slog.Info("appended open-source targets",
		logfields.Owner(owner), logfields.Count(len(entries)), logfields.Path(configPath))
	return nil
}

func runDiscover(ctx context.Context, source string, maxPages int, format, token string) error {
	cfg, _, err := loadCatalogue(CLI.Config)
	if err != nil {
		return err
	}
	discoverySource := config.NormalizeDiscoverySource(source)
	if maxPages > 0 {
		cfg.Discovery.MaxPages = maxPages
	}

	client := github.NewClient(token)
	repos, err := client.Discover(ctx, discoverySource, cfg.Discovery)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(repos); err != nil {
			return err
		}
	default:
		for _, repo := range repos {
			fmt.Println(repo.String())
		}
	}
	slog.Info("discovery finished", logfields.Source(string(discoverySource)), logfields.Count(len(repos)))
	return nil
}

// appendDiscovered writes the merged document back by appending a minimal
// raw entry per new target to the authored catalogue. The document is
// re-read without expansion or defaulting first, so runtime overrides and
// derived defaults never end up in the file; appended defaults re-derive on
// the next load.
func appendDiscovered(merged target.TargetsDocument, priorLen int, configPath string) error {
	raw, err := config.LoadRaw(configPath)
	if err != nil {
		return err
	}
	for _, t := range merged.Targets[priorLen:] {
		repo := t.Repository
		slog.Info("appending discovered target",
			logfields.Owner(t.Owner), logfields.Repository(repo), logfields.Slug(t.Slug))
		raw.Targets = append(raw.Targets, config.TargetEntry{
			Owner:      t.Owner,
			Repository: &repo,
			Kind:       t.Kind,
		})
	}
	return store.New(configPath).Save(raw)
}
