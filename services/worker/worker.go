package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sjsage522/couponworker/internal/coupon"
	"sjsage522/couponworker/internal/crawler"
	"sjsage522/couponworker/internal/pipeline"
	"sjsage522/couponworker/logger"
	pkgerrors "sjsage522/couponworker/pkg/errors"
	"sjsage522/couponworker/services/publisher"
)

// Worker handles the crawling and publishing process
type Worker struct {
	spiders       []crawler.Spider
	pipeline      *pipeline.Pipeline
	publisher     publisher.Publisher
	crawlInterval time.Duration
	log           *logger.Logger
}

// NewWorker creates a new worker. A nil pipeline uses pipeline.Default.
func NewWorker(
	spiders []crawler.Spider,
	pipe *pipeline.Pipeline,
	pub publisher.Publisher,
	crawlInterval time.Duration,
) *Worker {
	if pipe == nil {
		pipe = pipeline.Default()
	}
	return &Worker{
		spiders:       spiders,
		pipeline:      pipe,
		publisher:     pub,
		crawlInterval: crawlInterval,
		log:           logger.ForWorker(),
	}
}

// Start runs crawl rounds until ctx is done. With a zero interval it runs once.
func (w *Worker) Start(ctx context.Context) error {
	for {
		summary, err := w.RunOnce(ctx)
		if err != nil {
			return err
		}
		w.log.Info().
			Str("run", summary.RunID).
			Int("accepted", summary.Stats.Accepted).
			Dur("elapsed", summary.Duration).
			Msg("Crawl round finished")

		if w.crawlInterval <= 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.crawlInterval):
		}
	}
}

// RunOnce runs every spider concurrently under a fresh dedup session,
// publishes the accepted records and trims the streams.
// Spider and publish failures are collected in the summary; only
// cancellation of ctx is returned as an error.
func (w *Worker) RunOnce(ctx context.Context) (*Summary, error) {
	session := pipeline.NewSession(uuid.NewString())
	run := newRunState(session)
	w.log.WithFields(logger.Fields{
		"run":     session.ID,
		"spiders": len(w.spiders),
	}).Info().Msg("Crawl round started")

	var g errgroup.Group
	for _, s := range w.spiders {
		g.Go(func() error {
			w.crawlAndPublish(ctx, s, run)
			return nil
		})
	}
	_ = g.Wait()

	if err := w.publisher.TrimStreams(); err != nil {
		logger.LogError("worker", err, "Stream trimming failed")
		run.addError(err)
	}

	summary := run.summary()
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// crawlAndPublish crawls one spider and publishes its accepted records
func (w *Worker) crawlAndPublish(ctx context.Context, s crawler.Spider, run *runState) {
	name := s.GetName()
	log := logger.ForSpider(name)

	err := s.Crawl(ctx, func(record *coupon.Record) {
		out := w.pipeline.Process(run.session, record)
		if !out.IsAccepted() {
			return
		}

		data, err := json.Marshal(out.Record)
		if err != nil {
			run.session.MarkUnpublished()
			run.addError(pkgerrors.NewPublisher(name, "encode record", err))
			return
		}
		if err := w.publisher.Publish(publisher.MessageKey, data); err != nil {
			run.session.MarkUnpublished()
			logger.LogError("worker", err, "Failed to publish record from %s", name)
			run.addError(err)
			return
		}

		if run.addRecord(out.Record) {
			log.Debug().RawJSON("record", data).Msg("First accepted record")
		}
	})
	if err != nil {
		if retryable(err) {
			log.WithError(err).Warn().Msg("Spider finished with retryable fetch errors")
		} else {
			logger.LogError("worker", err, "Spider %s finished with errors", name)
		}
		run.addError(err)
	}
}

// retryable reports whether any scrape error inside err can succeed on a later round
func retryable(err error) bool {
	var scrapeErr *pkgerrors.ScrapeError
	return errors.As(err, &scrapeErr) && scrapeErr.IsRetryable()
}

// runState accumulates the results of one round across spider goroutines
type runState struct {
	session *pipeline.Session

	mu      sync.Mutex
	records []*coupon.Record
	errs    []error
}

func newRunState(session *pipeline.Session) *runState {
	return &runState{session: session}
}

// addRecord stores an accepted record and reports whether it was the first
func (r *runState) addRecord(record *coupon.Record) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return len(r.records) == 1
}

func (r *runState) addError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *runState) summary() *Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return NewSummary(r.session, r.records, r.errs)
}
