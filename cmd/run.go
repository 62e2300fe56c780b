package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sjsage522/couponworker/internal/crawler"
	"sjsage522/couponworker/logger"
	"sjsage522/couponworker/services/publisher"
	"sjsage522/couponworker/services/worker"
)

// runOptions carries what a single invocation needs to drive the worker
type runOptions struct {
	spiders  []crawler.Spider
	output   string
	interval time.Duration
}

// run drives the worker and always closes the sink, so buffered file
// output is written even when the run is interrupted
func run(ctx context.Context, opts runOptions) (summary *worker.Summary, err error) {
	pub, err := publisher.New(ctx, cfg, opts.output)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s sink: %w", cfg.Sink, err)
	}
	defer func() {
		if cerr := pub.Close(); cerr != nil && err == nil {
			err = cerr
			return
		}
		if fp, ok := pub.(*publisher.FilePublisher); ok && fp.Len() > 0 {
			logger.Info("Saved %d coupons to %s", fp.Len(), fp.Path())
		}
	}()

	w := worker.NewWorker(opts.spiders, nil, pub, opts.interval)
	if opts.interval > 0 {
		logger.Info("Starting coupon worker loop every %s", opts.interval)
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, nil
	}

	summary, err = w.RunOnce(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Warn("Crawl interrupted, keeping records collected so far")
		err = nil
	}
	return summary, err
}

// defaultOutputName builds the timestamped output file name for a spider
func defaultOutputName(spider string, now time.Time) string {
	return fmt.Sprintf("coupons_%s_%s.json", spider, now.Format("20060102_150405"))
}
