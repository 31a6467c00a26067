package fftdevice

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"constellation/internal/config"
)

// Simulator is a software stand-in for the hardware FFT accelerator.
// It satisfies Reader without any device node or cgo, for use in
// tests and on platforms where /dev/fft_accelerator doesn't exist. It
// windows successive chunks of a caller-supplied PCM signal and runs
// a real FFT over each, so the same peak extractor and matcher that
// exercise the Linux Device exercise it too.
type Simulator struct {
	cfg      config.DeviceConfig
	nFreq    int
	fft      *fourier.FFT
	window   []float64
	signal   []float64
	pos      int
	time     uint32
	dropMask func(sampleIndex uint32) bool
}

// NewSimulator builds a Simulator over signal (mono PCM samples at
// cfg.SamplingFreqHz), producing nFreq-wide magnitude columns at the
// device's downsampled cadence. dropMask, if non-nil, is consulted
// per sample index to simulate the driver's valid=0 dropped frames;
// pass nil for no drops.
func NewSimulator(cfg config.DeviceConfig, nFreq int, signal []float64, dropMask func(uint32) bool) *Simulator {
	windowSize := cfg.DownSamplingFactor
	window := make([]float64, windowSize)
	for i := range window {
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(windowSize-1))
	}

	return &Simulator{
		cfg:      cfg,
		nFreq:    nFreq,
		fft:      fourier.NewFFT(windowSize),
		window:   window,
		signal:   signal,
		dropMask: dropMask,
	}
}

// ReadSample returns the next synthesized magnitude column, or
// Valid=false if dropMask rejects this sample index, or ErrIO once
// the signal is exhausted.
func (s *Simulator) ReadSample() (Sample, error) {
	windowSize := s.cfg.DownSamplingFactor
	if s.pos+windowSize > len(s.signal) {
		return Sample{}, ErrIO
	}

	t := s.time
	s.time++

	if s.dropMask != nil && s.dropMask(t) {
		s.pos += windowSize
		return Sample{Time: t, Valid: false}, nil
	}

	frame := make([]float64, windowSize)
	for i := range frame {
		frame[i] = s.signal[s.pos+i] * s.window[i]
	}
	s.pos += windowSize

	coeffs := s.fft.Coefficients(nil, frame)

	ampl := make([]float32, s.nFreq)
	for i := 0; i < s.nFreq && i < len(coeffs); i++ {
		re, im := real(coeffs[i]), imag(coeffs[i])
		ampl[i] = float32(math.Sqrt(re*re + im*im))
	}

	return Sample{Time: t, Ampl: ampl, Valid: true}, nil
}

// Close is a no-op; Simulator owns no OS resources.
func (s *Simulator) Close() error { return nil }
