package bench

import (
	"context"
	"time"

	"github.com/banshee-data/rastergrid/internal/gridmap"
	"github.com/banshee-data/rastergrid/internal/monitoring"
	"github.com/banshee-data/rastergrid/internal/timeutil"
	"github.com/google/uuid"
)

// Result is the outcome of one variant.
type Result struct {
	Variant   Variant
	Durations []time.Duration // one per repetition
	Stats     gridmap.TransferStats
	Err       error
}

// Best returns the shortest repetition, or 0 when none ran.
func (r Result) Best() time.Duration {
	var best time.Duration
	for i, d := range r.Durations {
		if i == 0 || d < best {
			best = d
		}
	}
	return best
}

// Mean returns the mean repetition time, or 0 when none ran.
func (r Result) Mean() time.Duration {
	if len(r.Durations) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range r.Durations {
		sum += d
	}
	return sum / time.Duration(len(r.Durations))
}

// Run is one execution of a list of variants.
type Run struct {
	ID         string
	StartedAt  time.Time
	MapSize    gridmap.Size
	StreetSize gridmap.Size
	Results    []Result
}

// Runner times variants against an Env.
type Runner struct {
	Clock  timeutil.Clock
	Repeat int
	logf   func(format string, v ...interface{})
}

// NewRunner returns a Runner using clock that runs each variant repeat
// times.
func NewRunner(clock timeutil.Clock, repeat int) *Runner {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if repeat < 1 {
		repeat = 1
	}
	return &Runner{Clock: clock, Repeat: repeat, logf: monitoring.Tagged("bench")}
}

// Run executes variants in order. A failing variant records its error and
// the run moves on. Cancelling ctx stops the run between repetitions and
// returns the results gathered so far together with ctx.Err().
func (r *Runner) Run(ctx context.Context, env *Env, variants []Variant) (*Run, error) {
	run := &Run{
		ID:         uuid.New().String(),
		StartedAt:  r.Clock.Now(),
		MapSize:    env.Map.Size(),
		StreetSize: env.StreetMap.Size(),
	}
	for _, v := range variants {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		res, err := r.runVariant(ctx, env, v)
		run.Results = append(run.Results, res)
		if err != nil {
			return run, err
		}
	}
	return run, nil
}

func (r *Runner) runVariant(ctx context.Context, env *Env, v Variant) (Result, error) {
	res := Result{Variant: v}
	src := env.Map
	if v.Street {
		src = env.StreetMap
	}
	target, err := env.Map.Layer(v.TargetLayer())
	if err != nil {
		res.Err = err
		r.logf("variant %s failed: %v", v.Name, err)
		return res, nil
	}

	for i := 0; i < r.Repeat; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		target.Fill(target.FillValue())

		start := r.Clock.Now()
		stats, err := gridmap.Transfer(env.Map, v.TargetLayer(), src, env.SourceLayer, v.Options)
		elapsed := r.Clock.Since(start)
		if err != nil {
			res.Err = err
			r.logf("variant %s failed: %v", v.Name, err)
			return res, nil
		}
		res.Durations = append(res.Durations, elapsed)
		res.Stats = stats
	}
	if res.Stats.Missed > 0 {
		r.logf("variant %s: %d of %d cells outside source grid", v.Name, res.Stats.Missed, res.Stats.Cells)
	}
	return res, nil
}
