//go:build linux

package fftdevice

import (
	"encoding/binary"
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"constellation/internal/config"
)

// ioctlReadFFT is the READ_FFT command number. The reference driver
// defines FFT_ACCELERATOR_MAGIC = 'q' and command number 2, via
// _IOR(magic, nr, fft_accelerator_arg_t*); N_FREQUENCIES=256 amplitude
// words, one uint32 time field, one uint8 valid flag make up the
// payload the driver writes back.
const (
	fftAcceleratorMagic = 'q'
	readFFTNumber       = 2
)

func ioctlReadFFT(nFrequencies int) uintptr {
	payloadSize := nFrequencies*4 + 4 + 1
	return unix.IOR(fftAcceleratorMagic, readFFTNumber, uintptr(payloadSize))
}

// Device is the real character-device-backed Reader.
type Device struct {
	fd  int
	cfg config.DeviceConfig
}

// Open opens the FFT-accelerator character device at cfg.Path for
// read/write, matching the reference driver's O_RDWR open.
func Open(cfg config.DeviceConfig) (*Device, error) {
	fd, err := unix.Open(cfg.Path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("fftdevice: open %s: %w", cfg.Path, err)
	}
	return &Device{fd: fd, cfg: cfg}, nil
}

func (d *Device) Close() error {
	return unix.Close(d.fd)
}

// ReadSample issues the READ_FFT ioctl, retrying up to cfg.MaxRetries
// times with a short backoff while the ioctl call returns an error,
// and failing with ErrIO after the deadline named in
// cfg.StallTimeoutMillis or after retry exhaustion.
func (d *Device) ReadSample() (Sample, error) {
	deadline := time.Now().Add(time.Duration(d.cfg.StallTimeoutMillis) * time.Millisecond)
	nFreq := 256

	buf := make([]byte, nFreq*4+4+1)
	req := ioctlReadFFT(nFreq)

	for attempt := 0; attempt < d.cfg.MaxRetries; attempt++ {
		if time.Now().After(deadline) {
			return Sample{}, ErrIO
		}

		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(unsafe.Pointer(&buf[0])))
		if errno != 0 {
			backoff(d.cfg)
			continue
		}

		ampl := make([]float32, nFreq)
		for i := 0; i < nFreq; i++ {
			v := int32(binary.LittleEndian.Uint32(buf[i*4:]))
			ampl[i] = ampl2float(v, d.cfg.AmplFractionalBits)
		}
		sampleTime := binary.LittleEndian.Uint32(buf[nFreq*4:])
		valid := buf[nFreq*4+4] != 0

		if !valid {
			return Sample{Time: sampleTime, Valid: false}, nil
		}
		return Sample{Time: sampleTime, Ampl: ampl, Valid: true}, nil
	}

	return Sample{}, ErrIO
}
