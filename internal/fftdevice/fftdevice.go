// Package fftdevice implements the client side of the FFT-accelerator
// character-device interface: a single ioctl, READ_FFT, that fills a struct
// of N_FREQUENCIES fixed-point amplitudes, a monotonic sample index,
// and a validity flag. The hardware and its driver are out of scope;
// this package is the Go-native shim a deployment uses to talk to it,
// plus a software Simulator satisfying the same interface for tests
// and non-Linux development.
package fftdevice

import (
	"errors"
	"time"

	"constellation/internal/config"
)

// ErrIO is returned once the bounded retry count is exhausted without
// a fresh sample, or after a stall longer than the configured timeout.
// The sample producer treats this as end-of-stream.
var ErrIO = errors.New("fftdevice: i/o error reading sample")

// Sample is one hardware read: a magnitude vector in linear units
// (already converted from the device's fixed-point representation),
// the monotonic sample index the driver returned, and whether the
// read was a real sample (valid=1) or a dropped frame (valid=0).
type Sample struct {
	Time  uint32
	Ampl  []float32
	Valid bool
}

// Reader is satisfied by both the real ioctl-backed device and the
// Simulator, so the spectrogram package's DeviceSource can work
// against either without a build tag leaking into its own code.
type Reader interface {
	// ReadSample blocks until a new sample is available, the retry
	// budget is exhausted (ErrIO), or ctx-equivalent cancellation
	// would apply. A caller that receives Valid=false should treat it
	// as a dropped frame: advance time by Sample.Time, emit nothing.
	ReadSample() (Sample, error)
	// Close releases the underlying device handle.
	Close() error
}

// ampl2float converts the device's fixed-point amplitude
// (AMPL_FRACTIONAL_BITS fractional bits) to a linear float.
func ampl2float(fixed int32, fractionalBits uint) float32 {
	return float32(fixed) / float32(int32(1)<<fractionalBits)
}

// backoff sleeps the configured per-retry duration after a failed
// ioctl attempt, before the next one.
func backoff(cfg config.DeviceConfig) {
	time.Sleep(time.Duration(cfg.RetryBackoffMillis) * time.Millisecond)
}
