package pipeline

import (
	"sjsage522/couponworker/internal/coupon"
	"sjsage522/couponworker/logger"
	pkgerrors "sjsage522/couponworker/pkg/errors"
)

// Pipeline runs records through an ordered list of stages
type Pipeline struct {
	stages []Stage
	log    *logger.Logger
}

// New creates a pipeline with the given stages
func New(stages ...Stage) *Pipeline {
	return &Pipeline{
		stages: stages,
		log:    logger.ForPipeline(),
	}
}

// Default creates the validate, deduplicate, clean pipeline
func Default() *Pipeline {
	return New(ValidateStage{}, DedupStage{}, CleanStage{})
}

// Stages returns the stage names in execution order
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name())
	}
	return names
}

// Process runs record through every stage, stopping at the first non-accepted outcome.
// The outcome is counted in session.
func (p *Pipeline) Process(session *Session, record *coupon.Record) Outcome {
	for _, stage := range p.stages {
		out := stage.Process(session, record)
		if out.Kind != Accepted {
			if out.Kind == Rejected && out.Err == nil {
				out.Err = pkgerrors.NewValidation(stage.Name(), out.Reason)
			}
			p.report(stage, out)
			session.record(out.Kind)
			return out
		}
		record = out.Record
	}

	session.record(Accepted)
	return Accept(record)
}

func (p *Pipeline) report(stage Stage, out Outcome) {
	switch out.Kind {
	case Rejected:
		p.log.Warn().
			Str("stage", stage.Name()).
			Str("reason", out.Reason).
			Err(out.Err).
			Msg("Dropped record")
	case Duplicate:
		p.log.Info().
			Str("stage", stage.Name()).
			Str("key", out.Key).
			Msg("Duplicate item found")
	}
}
