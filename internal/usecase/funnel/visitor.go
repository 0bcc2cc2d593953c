// Package funnel wires the per-visitor components together and keeps one set
// of them for every browsing session.
package funnel

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/pkg/logger"
	"github.com/futig/ai-compass/internal/pkg/mindelay"
	"github.com/futig/ai-compass/internal/storage/session"
	"github.com/futig/ai-compass/internal/usecase/assessment"
	"github.com/futig/ai-compass/internal/usecase/report"
	"github.com/futig/ai-compass/internal/usecase/submission"
	"go.uber.org/zap"
)

// Visitor is the state of one browsing session.
type Visitor struct {
	ID string

	Session     *session.Context
	Initializer *assessment.Initializer
	Prefetcher  *assessment.Prefetcher
	Tracker     *assessment.Tracker
	Submission  *submission.Orchestrator
	Reports     *report.Downloader

	prefetchTimeout time.Duration
	starting        atomic.Bool
}

// NewVisitor builds the components of one browsing session around store.
func NewVisitor(
	id string,
	store session.Store,
	connector Connector,
	clock mindelay.Clock,
	minDisplay time.Duration,
	prefetchTimeout time.Duration,
) *Visitor {
	sessionCtx := session.NewContext(store)

	return &Visitor{
		ID:              id,
		Session:         sessionCtx,
		Initializer:     assessment.NewInitializer(connector, sessionCtx),
		Prefetcher:      assessment.NewPrefetcher(connector, sessionCtx, prefetchTimeout),
		Tracker:         assessment.NewTracker(connector, sessionCtx),
		Submission:      submission.NewOrchestrator(connector, sessionCtx, clock, minDisplay),
		Reports:         report.NewDownloader(connector),
		prefetchTimeout: prefetchTimeout,
	}
}

// Start opens a new assessment and makes the submission flow usable again.
// Only one start runs at a time; a concurrent call gets entity.ErrSessionStarting
// and creates nothing.
func (v *Visitor) Start(ctx context.Context) (entity.VisitorSession, error) {
	if !v.starting.CompareAndSwap(false, true) {
		return entity.VisitorSession{}, entity.ErrSessionStarting
	}
	defer v.starting.Store(false)

	s, err := v.Initializer.Initialize(ctx)
	if err != nil {
		return entity.VisitorSession{}, err
	}
	v.Submission.Reset()
	return s, nil
}

// WarmUp prefetches the questionnaire in the background. It outlives ctx but
// keeps its logger.
func (v *Visitor) WarmUp(ctx context.Context) {
	ctx = logger.AddFields(logger.Detached(ctx), zap.String("visitor_id", v.ID))

	go func() {
		ctx, cancel := context.WithTimeout(ctx, v.prefetchTimeout)
		defer cancel()
		v.Prefetcher.Prefetch(ctx)
	}()
}

// Reset ends the browsing session's assessment data.
func (v *Visitor) Reset() {
	v.Session.Clear()
	v.Submission.Reset()
}
