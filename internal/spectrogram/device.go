package spectrogram

import (
	"constellation/internal/fftdevice"
)

// DeviceSource adapts an fftdevice.Reader (the real character device
// or the software Simulator) to the Source interface, turning
// blocking per-sample ioctl calls into the same pull-based Column
// shape the file-based source provides. A valid=0 read is treated as
// a dropped frame: time still advances, but Next reads the device
// again rather than surfacing a zero-filled column.
type DeviceSource struct {
	reader   fftdevice.Reader
	width    int
	lastTime int
	done     bool
}

// NewDeviceSource wraps reader, reporting width frequency bins per
// column (the device's fixed N_FREQUENCIES).
func NewDeviceSource(reader fftdevice.Reader, width int) *DeviceSource {
	return &DeviceSource{reader: reader, width: width}
}

func (d *DeviceSource) Width() int { return d.width }

// Next blocks on the device until a valid sample arrives or the
// device reports end-of-stream (ErrIO), skipping dropped frames
// transparently.
func (d *DeviceSource) Next() (int, []float32, bool) {
	if d.done {
		return 0, nil, false
	}

	for {
		sample, err := d.reader.ReadSample()
		if err != nil {
			d.done = true
			return 0, nil, false
		}
		if !sample.Valid {
			// dropped frame: never fatal, never fabricated; advance
			// past it and try again.
			continue
		}
		d.lastTime = int(sample.Time)
		return d.lastTime, sample.Ampl, true
	}
}
