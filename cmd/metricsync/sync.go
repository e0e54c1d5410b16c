package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/metricsync/internal/config"
	"git.home.luguber.info/inful/metricsync/internal/github"
	"git.home.luguber.info/inful/metricsync/internal/journal"
	"git.home.luguber.info/inful/metricsync/internal/logfields"
	"git.home.luguber.info/inful/metricsync/internal/metrics"
	"git.home.luguber.info/inful/metricsync/internal/notify"
	"git.home.luguber.info/inful/metricsync/internal/syncer"
	"git.home.luguber.info/inful/metricsync/internal/target"
)

type syncOptions struct {
	source   string
	maxPages int
	token    string
	every    time.Duration
	natsURL  string
	subject  string
	journal  string

	// recorder receives sync outcomes and page counters. Nil selects the
	// no-op recorder; a real implementation is injected when metrics are
	// wired up.
	recorder metrics.Recorder
	// clientOpts are extra discovery client options (API URL overrides,
	// fake clocks).
	clientOpts []github.Option
}

// skipCountingRecorder forwards to the underlying recorder while keeping a
// per-run tally of skipped pages, so the journal and the sync summary can
// report warnings. Discovery strategies may run concurrently.
type skipCountingRecorder struct {
	metrics.Recorder
	skipped atomic.Int64
}

func (r *skipCountingRecorder) IncPageSkipped(source string) {
	r.skipped.Add(1)
	r.Recorder.IncPageSkipped(source)
}

func (r *skipCountingRecorder) Count() int { return int(r.skipped.Load()) }

func runSync(ctx context.Context, opts syncOptions) error {
	var publisher *notify.Publisher
	if opts.natsURL != "" {
		var err error
		publisher, err = notify.Connect(opts.natsURL, opts.subject)
		if err != nil {
			return err
		}
		defer publisher.Close()
	}

	var runLog *journal.Journal
	if opts.journal != "" {
		var err error
		runLog, err = journal.Open(opts.journal)
		if err != nil {
			return err
		}
		defer runLog.Close()
	}

	if opts.every <= 0 {
		return syncOnce(ctx, opts, publisher, runLog)
	}
	return syncOnSchedule(ctx, opts, publisher, runLog)
}

// syncOnSchedule runs syncOnce immediately and then on the configured
// interval until the context is cancelled. A failing run is logged and the
// schedule keeps going.
func syncOnSchedule(ctx context.Context, opts syncOptions, publisher *notify.Publisher, runLog *journal.Journal) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(opts.every),
		gocron.NewTask(func() {
			if err := syncOnce(ctx, opts, publisher, runLog); err != nil {
				slog.Error("scheduled sync failed", logfields.Error(err))
			}
		}),
		gocron.WithName("catalogue-sync"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}

	slog.Info("starting scheduled sync", "interval", opts.every.String())
	scheduler.Start()
	<-ctx.Done()
	return scheduler.Shutdown()
}

func syncOnce(ctx context.Context, opts syncOptions, publisher *notify.Publisher, runLog *journal.Journal) error {
	start := time.Now()

	rec := opts.recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	skips := &skipCountingRecorder{Recorder: rec}

	cfg, doc, err := loadCatalogue(CLI.Config)
	if err != nil {
		rec.IncSyncOutcome("failed")
		return err
	}
	if opts.maxPages > 0 {
		cfg.Discovery.MaxPages = opts.maxPages
	}
	source := config.NormalizeDiscoverySource(opts.source)

	// The counting recorder goes last so it always ends up on the client.
	clientOpts := append(append([]github.Option{}, opts.clientOpts...), github.WithRecorder(skips))
	client := github.NewClient(opts.token, clientOpts...)
	discovered, err := client.Discover(ctx, source, cfg.Discovery)
	if err != nil {
		rec.IncSyncOutcome("failed")
		recordRun(ctx, runLog, journal.Run{
			Mode: "sync", Source: string(source), Warnings: skips.Count(),
			StartedAt: start, Duration: time.Since(start), Error: err.Error(),
		})
		return err
	}

	policy := target.PolicyFromConfig(cfg.Policy)
	merged, added, err := syncer.Sync(doc, discovered, policy)
	if err != nil {
		rec.IncSyncOutcome("rejected")
		recordRun(ctx, runLog, journal.Run{
			Mode: "sync", Source: string(source), Discovered: len(discovered),
			Warnings: skips.Count(), StartedAt: start,
			Duration: time.Since(start), Error: err.Error(),
		})
		return err
	}

	if added > 0 {
		if err := appendDiscovered(merged, len(doc.Targets), CLI.Config); err != nil {
			rec.IncSyncOutcome("failed")
			return err
		}
	}

	rec.IncSyncOutcome("success")
	rec.AddTargetsAppended(added)

	warnings := skips.Count()
	duration := time.Since(start)
	slog.Info("sync finished",
		logfields.Source(string(source)),
		logfields.Count(added),
		"discovered", len(discovered),
		"warnings", warnings,
		logfields.DurationMS(float64(duration.Milliseconds())))

	runID := recordRun(ctx, runLog, journal.Run{
		Mode: "sync", Source: string(source), Discovered: len(discovered),
		Added: added, Warnings: warnings, StartedAt: start, Duration: duration,
	})

	if publisher != nil {
		summary := notify.SyncSummary{
			RunID:      runID,
			Source:     string(source),
			Discovered: len(discovered),
			Added:      added,
			Warnings:   warnings,
			DurationMS: duration.Milliseconds(),
			FinishedAt: time.Now().UTC(),
		}
		if err := publisher.Publish(summary); err != nil {
			slog.Warn("failed to publish sync summary", logfields.Error(err))
		}
	}
	return nil
}

// recordRun journals the run when a journal is configured. Journal failures
// are logged, never fatal to the sync itself.
func recordRun(ctx context.Context, runLog *journal.Journal, run journal.Run) string {
	if runLog == nil {
		return ""
	}
	id, err := runLog.Record(ctx, run)
	if err != nil {
		slog.Warn("failed to record run in journal", logfields.Error(err))
		return ""
	}
	slog.Debug("run journaled", logfields.RunID(id))
	return id
}
