// Package fit estimates an aerodynamic drag coefficient (cd) and a
// rolling-resistance coefficient (cr) from measured (speed, power) points by
// exhaustive grid search.
//
// # Model
//
//	P(v) = cd·v³ + cr·v·g·m      v in m/s (speed/3.6), g = 9.81, m in kg
//
// cd lumps the drag coefficient, frontal area and air density into one
// fitted constant.
//
// # Error
//
// A candidate (cd, cr) is scored against a dataset by its normalized RMS
// error
//
//	E = sqrt( Σ(P(v_i) - meas_i)² / Σ meas_i² )
//
// which is dimensionless and reported as a percentage. A dataset that is
// empty or has only zero powers cannot be normalized and yields
// ErrDegenerateDataset.
//
// # Searches
//
//   - Fit2D: every (cd, cr) on Config.Cd × Config.Cr.
//   - FitGivenCr: cr pinned, cd over Config.CdFine.
//   - FitJoint: one cr from Config.CrFine shared by several profiles, each
//     profile with its own cd from Config.CdFine. The shared cr minimizes the
//     sum of the per-profile errors.
//
// Grids are half-open and enumerated by integer index (see package grid).
// Enumeration is ascending cd then ascending cr, and the first minimum wins,
// so equal errors always resolve to the same candidate.
//
// # Workers
//
// Config.Workers > 1 splits the outer loop (cd for Fit2D/FitGivenCr, cr for
// FitJoint) into contiguous chunks run on an errgroup. Partial minima are
// reduced by lowest error, then lowest enumeration index, which gives the
// same result as the sequential scan. Searches stop early only when ctx is
// cancelled.
//
// Example
//
//	f, err := fit.New(nil) // reference grids, one worker
//	if err != nil { log.Fatal(err) }
//	ds := fit.NewDataset(map[float64]float64{25.3: 135, 38.9: 372})
//	res, err := f.Fit2D(ctx, 88, ds)
//	if err != nil { log.Fatal(err) }
//	fmt.Printf("error=%.1f%% cd=%.3f cr=%.4f\n", res.Error*100, res.Cd, res.Cr)
package fit
