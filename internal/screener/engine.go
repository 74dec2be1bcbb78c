package screener

import (
	"context"
	"runtime"
	"stock-screener/internal/dto"
	"stock-screener/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type Engine struct {
	log *logger.Logger
}

func NewEngine(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{log: log}
}

// active returns the enabled criteria, or nil when the screen is the identity.
func active(criteria []dto.FilterCriterion) []dto.FilterCriterion {
	if dto.EnabledCount(criteria) == 0 {
		return nil
	}
	out := make([]dto.FilterCriterion, 0, len(criteria))
	for _, c := range criteria {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

// warn logs and returns the data-quality warnings for criteria.
func (e *Engine) warn(ctx context.Context, criteria []dto.FilterCriterion) []string {
	warnings := Warnings(criteria)
	for _, w := range warnings {
		e.log.WarnContext(ctx, "Criterion will not be evaluated as written", logger.StringField("reason", w))
	}
	return warnings
}

// Screen keeps the stocks that satisfy every enabled criterion, in input order. With no
// enabled criteria the universe is returned as is.
func (e *Engine) Screen(universe []dto.Stock, criteria []dto.FilterCriterion) []dto.Stock {
	filters := active(criteria)
	if filters == nil {
		return universe
	}
	e.warn(context.Background(), filters)

	out := make([]dto.Stock, 0, len(universe))
	for i := range universe {
		if Match(&universe[i], filters) {
			out = append(out, universe[i])
		}
	}
	return out
}

// ScreenConcurrent returns the same stocks as Screen, evaluating up to workers stocks at once,
// together with the warnings for criteria that are not evaluated as written. workers <= 0 uses
// GOMAXPROCS.
func (e *Engine) ScreenConcurrent(ctx context.Context, universe []dto.Stock, criteria []dto.FilterCriterion, workers int) ([]dto.Stock, []string, error) {
	filters := active(criteria)
	if filters == nil {
		return universe, nil, nil
	}
	warnings := e.warn(ctx, filters)

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	keep := make([]bool, len(universe))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range universe {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			keep[i] = Match(&universe[i], filters)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	out := make([]dto.Stock, 0, len(universe))
	for i, ok := range keep {
		if ok {
			out = append(out, universe[i])
		}
	}
	return out, warnings, nil
}
