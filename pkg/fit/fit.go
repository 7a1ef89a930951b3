package fit

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/ja7ad/coeffit/pkg/grid"
	"github.com/ja7ad/coeffit/pkg/types"
)

// Fitter runs grid searches with a fixed Config. It holds no mutable state
// and is safe for concurrent use.
type Fitter struct {
	cfg Config
}

// New creates a Fitter. Zero-valued grids in cfg fall back to the defaults;
// Workers <= 0 means 1. Any grid that is set but invalid is rejected with
// grid.ErrInvalidRange.
func New(cfg *Config) (*Fitter, error) {
	merged := *_defaultConfig()
	if cfg != nil {
		if !cfg.Cd.IsZero() {
			merged.Cd = cfg.Cd
		}
		if !cfg.CdFine.IsZero() {
			merged.CdFine = cfg.CdFine
		}
		if !cfg.Cr.IsZero() {
			merged.Cr = cfg.Cr
		}
		if !cfg.CrFine.IsZero() {
			merged.CrFine = cfg.CrFine
		}
		if cfg.Workers > 0 {
			merged.Workers = cfg.Workers
		}
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &Fitter{cfg: merged}, nil
}

// Config returns the effective configuration.
func (f *Fitter) Config() Config { return f.cfg }

// Fit2D searches every (cd, cr) on Cd × Cr and returns the pair with the
// lowest error. Enumeration is ascending cd, then ascending cr; the first
// minimum wins ties.
func (f *Fitter) Fit2D(ctx context.Context, mass types.Mass, ds Dataset) (Result, error) {
	p, err := prepare(mass, ds)
	if err != nil {
		return Result{}, err
	}
	cds, crs := f.cfg.Cd, f.cfg.Cr
	m := crs.Len()

	b, err := sweep(ctx, f.cfg.Workers, cds.Len(), func(ctx context.Context, from, to int) (best[Result], error) {
		b := newBest[Result]()
		for i := from; i < to; i++ {
			if err := ctx.Err(); err != nil {
				return b, err
			}
			cd := cds.At(i)
			for j := range m {
				cr := crs.At(j)
				e := p.score(cd, cr)
				b.offer(i*m+j, e, Result{Error: e, Cd: cd, Cr: cr})
			}
		}
		return b, nil
	})
	if err != nil {
		return Result{}, err
	}
	return resultOf(b)
}

// FitProfile is Fit2D on a profile's mass and dataset.
func (f *Fitter) FitProfile(ctx context.Context, pr Profile) (Result, error) {
	res, err := f.Fit2D(ctx, pr.Mass, pr.Data)
	if err != nil {
		return Result{}, fmt.Errorf("fit: profile %q: %w", pr.Name, err)
	}
	return res, nil
}

// FitGivenCr searches CdFine with cr pinned to the given value, which is
// copied verbatim into the result.
func (f *Fitter) FitGivenCr(ctx context.Context, mass types.Mass, ds Dataset, cr float64) (Result, error) {
	p, err := prepare(mass, ds)
	if err != nil {
		return Result{}, err
	}
	cds := f.cfg.CdFine
	b, err := sweep(ctx, f.cfg.Workers, cds.Len(), func(ctx context.Context, from, to int) (best[Result], error) {
		if err := ctx.Err(); err != nil {
			return newBest[Result](), err
		}
		return scanCd(p, cds, cr, from, to), nil
	})
	if err != nil {
		return Result{}, err
	}
	return resultOf(b)
}

// scanCd is the 1-D cd scan over [from, to) shared by FitGivenCr and FitJoint.
func scanCd(p *problem, cds grid.Range, cr float64, from, to int) best[Result] {
	b := newBest[Result]()
	for i := from; i < to; i++ {
		cd := cds.At(i)
		e := p.score(cd, cr)
		b.offer(i, e, Result{Error: e, Cd: cd, Cr: cr})
	}
	return b
}

// FitJoint picks one cr from CrFine shared by all profiles while each profile
// gets its own cd from CdFine. The winning cr minimizes the sum of the
// per-profile errors. Results are returned in input order.
func (f *Fitter) FitJoint(ctx context.Context, profiles []Profile) ([]Result, error) {
	if len(profiles) == 0 {
		return nil, ErrNoProfiles
	}
	probs := make([]*problem, len(profiles))
	for k, pr := range profiles {
		p, err := prepare(pr.Mass, pr.Data)
		if err != nil {
			return nil, fmt.Errorf("fit: profile %q: %w", pr.Name, err)
		}
		probs[k] = p
	}
	cds, crs := f.cfg.CdFine, f.cfg.CrFine
	ncd := cds.Len()

	b, err := sweep(ctx, f.cfg.Workers, crs.Len(), func(ctx context.Context, from, to int) (best[[]Result], error) {
		b := newBest[[]Result]()
		errs := make([]float64, len(probs))
		for i := from; i < to; i++ {
			if err := ctx.Err(); err != nil {
				return b, err
			}
			cr := crs.At(i)
			cur := make([]Result, len(probs))
			for k, p := range probs {
				r, err := resultOf(scanCd(p, cds, cr, 0, ncd))
				if err != nil {
					return b, fmt.Errorf("fit: profile %q: %w", profiles[k].Name, err)
				}
				cur[k] = r
				errs[k] = r.Error
			}
			b.offer(i, floats.Sum(errs), cur)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if !b.found {
		return nil, ErrNoCandidates
	}
	out := b.val
	for k := range out {
		out[k].Evaluated = crs.Len() * ncd
	}
	return out, nil
}

// best tracks the running minimum of one worker. idx is the flat enumeration
// index of the held candidate and breaks ties across workers.
type best[T any] struct {
	score     float64
	idx       int
	val       T
	found     bool
	evaluated int
}

func newBest[T any]() best[T] {
	return best[T]{score: math.Inf(1), idx: -1}
}

// offer must be called in ascending idx order.
func (b *best[T]) offer(idx int, score float64, val T) {
	b.evaluated++
	if score < b.score {
		b.score, b.idx, b.val, b.found = score, idx, val, true
	}
}

func (b best[T]) merge(o best[T]) best[T] {
	n := b.evaluated + o.evaluated
	out := b
	switch {
	case !o.found:
	case !b.found, o.score < b.score, o.score == b.score && o.idx < b.idx:
		out = o
	}
	out.evaluated = n
	return out
}

// resultOf unwraps a single-dataset search.
func resultOf(b best[Result]) (Result, error) {
	if !b.found {
		return Result{}, ErrNoCandidates
	}
	r := b.val
	r.Evaluated = b.evaluated
	return r, nil
}

// sweep runs eval over [0, n), split across up to workers goroutines, and
// reduces the partial minima.
func sweep[T any](ctx context.Context, workers, n int, eval func(ctx context.Context, from, to int) (best[T], error)) (best[T], error) {
	chunks := grid.Split(n, workers)
	switch len(chunks) {
	case 0:
		return newBest[T](), nil
	case 1:
		return eval(ctx, 0, n)
	}

	parts := make([]best[T], len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for w, c := range chunks {
		g.Go(func() error {
			b, err := eval(gctx, c[0], c[1])
			parts[w] = b
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return newBest[T](), err
	}

	out := newBest[T]()
	for _, b := range parts {
		out = out.merge(b)
	}
	return out, nil
}
