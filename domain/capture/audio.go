package capture

import (
	"log/slog"

	"github.com/soocke/assetpicker-go/domain/camera"
)

// addAudioInput attaches the default microphone. Failures are logged and
// tolerated: recordings and live photos continue without sound.
func addAudioInput(hw camera.Hardware, tx *configTx, logger *slog.Logger) bool {
	if tx.hasInput(camera.DeviceMicrophone) {
		return true
	}
	dev, err := hw.DefaultDevice(camera.DeviceMicrophone, camera.MediaAudio, camera.PositionUnspecified)
	if err != nil {
		if logger != nil {
			logger.Warn("could not find audio device, continuing without audio", "error", err)
		}
		return false
	}
	in, err := hw.NewDeviceInput(dev)
	if err != nil {
		if logger != nil {
			logger.Warn("could not create audio device input", "error", err)
		}
		return false
	}
	if !tx.addInput(in) {
		if logger != nil {
			logger.Warn("could not add audio device input to the session")
		}
		return false
	}
	return true
}
