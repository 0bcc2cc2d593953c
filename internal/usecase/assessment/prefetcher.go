package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/pkg/logger"
	"github.com/futig/ai-compass/internal/storage/session"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	questionnaireFlight = "questionnaire"

	defaultFetchTimeout = 30 * time.Second
)

// Prefetcher keeps the questionnaire cached in the session store so the
// questionnaire view does not wait on the network.
type Prefetcher struct {
	connector    QuestionnaireConnector
	session      *session.Context
	flight       singleflight.Group
	fetchTimeout time.Duration
}

// NewPrefetcher bounds every shared fetch by fetchTimeout, independent of the
// callers waiting on it. Zero means 30s.
func NewPrefetcher(connector QuestionnaireConnector, sessionCtx *session.Context, fetchTimeout time.Duration) *Prefetcher {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &Prefetcher{
		connector:    connector,
		session:      sessionCtx,
		fetchTimeout: fetchTimeout,
	}
}

// Prefetch warms the questionnaire cache. It is best-effort: failures are
// logged and dropped. Callers run it in the background.
func (p *Prefetcher) Prefetch(ctx context.Context) {
	ctx = logger.WithAction(ctx, "prefetch_questionnaire")

	if p.session.HasQuestionnaire() {
		ctxzap.Debug(ctx, "questionnaire already cached")
		return
	}

	if _, err := p.load(ctx); err != nil {
		ctxzap.Warn(ctx, "questionnaire prefetch skipped", zap.Error(&entity.PrefetchWarning{Err: err}))
	}
}

// Questionnaire returns the cached questionnaire, fetching it when the cache
// is empty. Fetch errors are returned.
func (p *Prefetcher) Questionnaire(ctx context.Context) (entity.Questionnaire, error) {
	if q, ok := p.session.Questionnaire(); ok {
		return q, nil
	}

	q, err := p.load(logger.WithAction(ctx, "get_questionnaire"))
	if err != nil {
		return nil, fmt.Errorf("load questionnaire: %w", err)
	}
	return q, nil
}

// load fetches the questionnaire once per in-flight window and caches it.
// An already cached copy always wins over the fetched one. The fetch runs on
// its own context so a caller giving up does not fail the others; ctx only
// bounds how long this caller waits.
func (p *Prefetcher) load(ctx context.Context) (entity.Questionnaire, error) {
	ch := p.flight.DoChan(questionnaireFlight, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(logger.Detached(ctx), p.fetchTimeout)
		defer cancel()

		return p.fetch(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			ctxzap.Debug(ctx, "joined in-flight questionnaire fetch")
		}
		return res.Val.(entity.Questionnaire), nil
	}
}

func (p *Prefetcher) fetch(ctx context.Context) (entity.Questionnaire, error) {
	if q, ok := p.session.Questionnaire(); ok {
		return q, nil
	}

	q, err := p.connector.GetQuestionnaire(ctx)
	if err != nil {
		return nil, err
	}
	if len(q) == 0 {
		return nil, entity.ErrQuestionnaireAbsent
	}

	stored, err := p.session.CacheQuestionnaire(q)
	if err != nil {
		return nil, err
	}
	if !stored {
		ctxzap.Debug(ctx, "questionnaire cached concurrently, keeping existing copy")
		if cached, ok := p.session.Questionnaire(); ok {
			return cached, nil
		}
		return nil, errors.New("questionnaire cache emptied during prefetch")
	}

	ctxzap.Info(ctx, "questionnaire cached", zap.Int("bytes", len(q)))
	return q, nil
}
