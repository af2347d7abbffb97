package sim

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/san-kum/chaoseq/internal/chaos"
	"github.com/san-kum/chaoseq/internal/config"
	"github.com/san-kum/chaoseq/internal/projection"
	"github.com/san-kum/chaoseq/internal/trail"
)

// SurveyResult scores one seeded equation by how much of it was drawable.
type SurveyResult struct {
	Seed         int64
	Code         string
	Label        string
	VisibleRatio float64
	FinalT       float64
}

// Ensemble runs independent headless sessions concurrently, one equation
// per seed. Sessions share nothing, so the sub-step ordering inside each
// one is unaffected.
type Ensemble struct {
	cfg       config.Config
	screen    projection.Screen
	numRuns   int
	seedStart int64
	frames    int
}

func NewEnsemble(cfg *config.Config, screen projection.Screen, numRuns int, seedStart int64, frames int) *Ensemble {
	return &Ensemble{cfg: *cfg, screen: screen, numRuns: numRuns, seedStart: seedStart, frames: frames}
}

// Run returns results sorted by descending VisibleRatio. On cancellation it
// returns the context error and no results.
func (e *Ensemble) Run(ctx context.Context) ([]SurveyResult, error) {
	if e.numRuns < 0 {
		return nil, fmt.Errorf("%w: ensemble of %d runs", config.ErrInvalid, e.numRuns)
	}
	results := make([]SurveyResult, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)
			cfgCopy.Shuffle = false
			cfgCopy.Restart = config.RestartContinue
			cfgCopy.Palette = trail.PaletteMono

			results[idx], errs[idx] = e.survey(ctx, &cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].VisibleRatio > results[b].VisibleRatio
	})
	return results, nil
}

func (e *Ensemble) survey(ctx context.Context, cfg *config.Config) (SurveyResult, error) {
	c, err := New(cfg, e.screen, nil)
	if err != nil {
		return SurveyResult{}, err
	}

	visible := 0
	total := 0
	for f := 0; f < e.frames && !c.State().Completed(); f++ {
		select {
		case <-ctx.Done():
			return SurveyResult{}, ctx.Err()
		default:
		}
		r := c.Frame()
		visible += r.Stats.VisibleSteps
		total += chaos.StepsPerFrame
	}

	ratio := 0.0
	if total > 0 {
		ratio = float64(visible) / float64(total)
	}
	return SurveyResult{
		Seed:         cfg.Seed,
		Code:         c.Params().Encode(),
		Label:        c.Label(),
		VisibleRatio: ratio,
		FinalT:       c.State().T,
	}, nil
}
