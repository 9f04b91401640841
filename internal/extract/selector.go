package extract

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/forkful/recipe-cli/internal/model"
)

// ErrNoRecipe is returned when every applicable strategy has been tried
// and none produced a result with ingredients or directions.
var ErrNoRecipe = eris.New("extract: no recipe found")

// IsNoRecipe reports whether err is the terminal no-recipe condition.
func IsNoRecipe(err error) bool {
	return eris.Is(err, ErrNoRecipe)
}

// Selector scores registered strategies against a source and runs them
// in descending confidence order until one yields a non-empty result.
type Selector struct {
	strategies []Strategy
}

// NewSelector creates a Selector. Registration order breaks confidence
// ties.
func NewSelector(strategies ...Strategy) *Selector {
	return &Selector{strategies: strategies}
}

// Result pairs an extracted recipe with the strategy that produced it.
type Result struct {
	Recipe   *model.Recipe
	Strategy string
}

type candidate struct {
	strategy   Strategy
	confidence float64
	order      int
}

// Extract runs the cascade. Strategies scoring zero are never invoked.
// A strategy error is not terminal: the selector logs it and falls
// through to the next candidate.
func (s *Selector) Extract(ctx context.Context, src *Source) (*Result, error) {
	candidates := make([]candidate, 0, len(s.strategies))
	for i, st := range s.strategies {
		conf := st.Confidence(src)
		if conf <= 0 {
			continue
		}
		candidates = append(candidates, candidate{strategy: st, confidence: conf, order: i})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].confidence != candidates[j].confidence {
			return candidates[i].confidence > candidates[j].confidence
		}
		return candidates[i].order < candidates[j].order
	})

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "extract: canceled")
		}
		recipe, err := c.strategy.Extract(ctx, src)
		if err != nil {
			zap.L().Debug("extract: strategy failed, trying next",
				zap.String("strategy", c.strategy.Name()),
				zap.String("url", src.URL),
				zap.Error(err),
			)
			continue
		}
		if !recipe.HasContent() {
			zap.L().Debug("extract: strategy returned empty result",
				zap.String("strategy", c.strategy.Name()),
				zap.String("url", src.URL),
			)
			continue
		}
		recipe.Normalize()
		zap.L().Info("extract: recipe found",
			zap.String("strategy", c.strategy.Name()),
			zap.String("url", src.URL),
			zap.Float64("confidence", c.confidence),
			zap.Int("ingredients", len(recipe.Ingredients)),
			zap.Int("directions", len(recipe.Directions)),
		)
		return &Result{Recipe: recipe, Strategy: c.strategy.Name()}, nil
	}

	return nil, ErrNoRecipe
}
