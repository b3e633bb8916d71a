// Package analysis measures oscillation properties of a solved trajectory.
//
//   - [DominantPeriod]: strongest spectral component, via a windowed FFT
//   - [CrossingPeriod]: period from interpolated zero crossings
//   - [ExactPeriod]: closed-form large-amplitude period for comparison
//   - [PhasePortrait]: the (θ, ω) path, with a text rendering
//   - [PeriodSweep]: period against release amplitude
//
// The period of a real pendulum grows with amplitude:
//
//	pts, err := analysis.PeriodSweep(ctx, p, integrators.NewRK4, cfg, analysis.Amplitudes(0.1, 3, 12), grid)
package analysis
