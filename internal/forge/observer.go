package forge

import (
	"context"
	"time"

	"github.com/zjrosen/alloy/internal/log"
	"github.com/zjrosen/alloy/internal/variant"
)

type startedKey struct{}

// logObserver writes construction lifecycle entries to the category logger.
type logObserver struct {
	variant.NopObserver
}

func (logObserver) ConstructStarted(ctx context.Context, t *variant.Template, id variant.ID) context.Context {
	log.Debug(log.CatFactory, "Construct started",
		"unit", id,
		"template", t.Name(),
		"depth", variant.Depth(ctx),
		"chain", variant.ChainID(ctx))
	return context.WithValue(ctx, startedKey{}, time.Now())
}

func (logObserver) ConstructFinished(ctx context.Context, t *variant.Template, id variant.ID, err error) {
	var elapsed time.Duration
	if started, ok := ctx.Value(startedKey{}).(time.Time); ok {
		elapsed = time.Since(started)
	}
	if err != nil {
		log.ErrorErr(log.CatFactory, "Construct failed", err,
			"unit", id,
			"template", t.Name(),
			"elapsed", elapsed)
		return
	}
	log.Debug(log.CatFactory, "Construct finished",
		"unit", id,
		"template", t.Name(),
		"elapsed", elapsed)
}

func (logObserver) IngredientFinished(_ context.Context, id variant.ID, ingredient string, err error) {
	if err != nil {
		log.Warn(log.CatIngredient, "Ingredient failed", "unit", id, "ingredient", ingredient, "error", err)
		return
	}
	log.Debug(log.CatIngredient, "Ingredient applied", "unit", id, "ingredient", ingredient)
}

func (logObserver) IngredientSkipped(_ context.Context, id variant.ID, ingredient string, ignored variant.Args) {
	log.Warn(log.CatIngredient, "Ingredient already applied, entry args ignored",
		"unit", id,
		"ingredient", ingredient,
		"ignored", []any(ignored))
}
