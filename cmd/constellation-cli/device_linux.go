//go:build linux

package main

import (
	"constellation/internal/config"
	"constellation/internal/database"
	"constellation/internal/fftdevice"
	"constellation/internal/logging"
	"constellation/internal/peaks"
	"constellation/internal/spectrogram"
)

// handleQueryDevice runs one query sourced live from the FFT
// accelerator rather than a spectrogram file. It returns -1 if the
// device cannot be opened, matching the startup-failure exit code a
// deployment without the hardware present should report.
func handleQueryDevice(db database.Database, cfg config.Config) int {
	dev, err := fftdevice.Open(cfg.Device)
	if err != nil {
		logging.Error("opening fft device: %v", err)
		return -1
	}
	defer dev.Close()

	src := spectrogram.NewDeviceSource(dev, cfg.NFFT)
	c := peaks.Extract(src, cfg)
	reportMatch(db, c, cfg)
	return 0
}
