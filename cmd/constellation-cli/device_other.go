//go:build !linux

package main

import (
	"constellation/internal/config"
	"constellation/internal/database"
	"constellation/internal/logging"
)

// handleQueryDevice reports the FFT accelerator as unavailable: the
// real ioctl-backed Reader is Linux-only, since the character device
// it talks to is.
func handleQueryDevice(db database.Database, cfg config.Config) int {
	logging.Error("query-device is only supported on linux (no fft_accelerator character device on this platform)")
	return -1
}
