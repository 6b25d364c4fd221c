package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/tweetfi/tweetfi-service/internal/pkg/metrics"
	"github.com/tweetfi/tweetfi-service/internal/core/domain"
	"github.com/tweetfi/tweetfi-service/internal/core/ports"
)

const DefaultPollInterval = 30 * time.Second

// CycleReport summarises one polling cycle.
type CycleReport struct {
	Attempted []domain.AccountHandle
	Found     int
	Missing   int
	// Interrupted is true when cancellation stopped the cycle early.
	Interrupted bool
}

// Poller checks every tracked account for its latest post on a fixed cadence.
// Cycles never overlap and keep no state between them.
type Poller struct {
	fetcher  ports.PostFetcher
	accounts ports.AccountSource
	interval time.Duration
	log      zerolog.Logger
}

// NewPoller returns a Poller. A non-positive interval falls back to
// DefaultPollInterval.
func NewPoller(fetcher ports.PostFetcher, accounts ports.AccountSource, interval time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		fetcher:  fetcher,
		accounts: accounts,
		interval: interval,
		log:      log,
	}
}

// Run executes a cycle immediately, then waits the full interval after each
// cycle before starting the next. It blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info().Dur("interval", p.interval).Msg("poller started")
	defer p.log.Info().Msg("poller stopped")

	for {
		p.RunCycle(ctx)

		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// RunCycle checks each tracked account once, in source order. A missing post
// never stops the cycle; cancellation is honoured between accounts.
func (p *Poller) RunCycle(ctx context.Context) CycleReport {
	start := time.Now()
	var report CycleReport

	defer func() {
		metrics.PollCyclesTotal.Inc()
		metrics.PollCycleDuration.Observe(time.Since(start).Seconds())
		p.log.Debug().
			Int("attempted", len(report.Attempted)).
			Int("found", report.Found).
			Int("missing", report.Missing).
			Bool("interrupted", report.Interrupted).
			Dur("took", time.Since(start)).
			Msg("poll cycle complete")
	}()

	handles, err := p.accounts.TrackedHandles(ctx)
	if err != nil {
		p.log.Error().Err(err).Msg("failed to read tracked accounts, skipping cycle")
		return report
	}
	handles = lo.Filter(handles, func(h domain.AccountHandle, _ int) bool {
		return strings.TrimSpace(string(h)) != ""
	})

	for _, handle := range handles {
		if ctx.Err() != nil {
			report.Interrupted = true
			return report
		}

		report.Attempted = append(report.Attempted, handle)
		p.log.Debug().Str("handle", string(handle)).Msg("checking latest post")

		post, ok := p.fetcher.GetLatestPost(ctx, handle)
		if !ok {
			report.Missing++
			metrics.PollAccountsTotal.WithLabelValues("missing").Inc()
			p.log.Warn().Str("handle", string(handle)).Msg("no post found")
			continue
		}

		report.Found++
		metrics.PollAccountsTotal.WithLabelValues("found").Inc()
		ev := p.log.Info().
			Str("handle", string(handle)).
			Str("post_id", post.ID).
			Str("text", post.Text)
		if post.HasTimestamp() {
			ev = ev.Time("created_at", post.CreatedAt)
		}
		ev.Msg("post found")
	}
	return report
}
