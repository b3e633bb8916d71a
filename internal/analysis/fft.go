package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrTooShort      = errors.New("analysis: series too short")
	ErrNonUniform    = errors.New("analysis: samples are not evenly spaced")
	ErrNoOscillation = errors.New("analysis: no oscillation found")
)

// Spectrum is the one-sided amplitude spectrum of an evenly sampled series.
type Spectrum struct {
	Freqs []float64 // Hz
	Power []float64
}

// padFactor oversamples the spectrum by zero padding so the peak can be
// located to a fraction of a bin.
const padFactor = 4

// NewSpectrum removes the mean, applies a Hann window and zero pads to a
// power of two before transforming.
func NewSpectrum(samples []float64, dt float64) (*Spectrum, error) {
	n := len(samples)
	if n < 4 {
		return nil, ErrTooShort
	}
	if !(dt > 0) {
		return nil, ErrNonUniform
	}

	size := nextPow2(padFactor * n)
	buf := make([]float64, size)
	mean := floats.Sum(samples) / float64(n)
	for i, v := range samples {
		buf[i] = v - mean
	}
	window.Hann(buf[:n])

	fft := fourier.NewFFT(size)
	coeffs := fft.Coefficients(nil, buf)

	s := &Spectrum{
		Freqs: make([]float64, len(coeffs)),
		Power: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		s.Freqs[i] = fft.Freq(i) / dt
		s.Power[i] = cmplx.Abs(c)
	}
	return s, nil
}

// Peak returns the frequency of the strongest non-DC component, refined by
// a parabola through the log magnitudes of the neighbouring bins.
func (s *Spectrum) Peak() (float64, error) {
	if len(s.Power) < 3 {
		return 0, ErrTooShort
	}

	k := 1 + floats.MaxIdx(s.Power[1:])
	if s.Power[k] == 0 {
		return 0, ErrNoOscillation
	}
	if k == len(s.Power)-1 {
		return s.Freqs[k], nil
	}

	a, b, c := s.Power[k-1], s.Power[k], s.Power[k+1]
	delta := 0.0
	if a > 0 && c > 0 {
		la, lb, lc := math.Log(a), math.Log(b), math.Log(c)
		if den := la - 2*lb + lc; den != 0 {
			delta = 0.5 * (la - lc) / den
		}
	}
	step := s.Freqs[1] - s.Freqs[0]
	return s.Freqs[k] + delta*step, nil
}

// DominantPeriod estimates the main oscillation period of values sampled at
// the evenly spaced times.
func DominantPeriod(times, values []float64) (float64, error) {
	if len(times) != len(values) || len(times) < 4 {
		return 0, ErrTooShort
	}
	dt := times[1] - times[0]
	s, err := NewSpectrum(values, dt)
	if err != nil {
		return 0, err
	}
	f, err := s.Peak()
	if err != nil {
		return 0, err
	}
	if !(f > 0) {
		return 0, ErrNoOscillation
	}
	return 1 / f, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
