package capture

import (
	"fmt"
	"log/slog"

	"github.com/soocke/assetpicker-go/domain/camera"
)

// configTx tracks what a configuration attempt attached so a failed attempt
// can be rolled back before the transaction is committed.
type configTx struct {
	session camera.Session
	inputs  []camera.DeviceInput
	outputs []camera.Output
}

func newConfigTx(s camera.Session) *configTx { return &configTx{session: s} }

func (tx *configTx) addInput(in camera.DeviceInput) bool {
	if !tx.session.CanAddInput(in) {
		return false
	}
	tx.session.AddInput(in)
	tx.inputs = append(tx.inputs, in)
	return true
}

func (tx *configTx) addOutput(out camera.Output) bool {
	if !tx.session.CanAddOutput(out) {
		return false
	}
	tx.session.AddOutput(out)
	tx.outputs = append(tx.outputs, out)
	return true
}

func (tx *configTx) hasInput(t camera.DeviceType) bool {
	for _, in := range tx.session.Inputs() {
		if in.Device().Type() == t {
			return true
		}
	}
	return false
}

func (tx *configTx) rollback() {
	for i := len(tx.outputs) - 1; i >= 0; i-- {
		tx.session.RemoveOutput(tx.outputs[i])
	}
	for i := len(tx.inputs) - 1; i >= 0; i-- {
		tx.session.RemoveInput(tx.inputs[i])
	}
	tx.inputs, tx.outputs = nil, nil
}

// deviceInputManager selects the video camera and swaps between front and back.
// Queue-owned.
type deviceInputManager struct {
	hw     camera.Hardware
	logger *slog.Logger
	active camera.DeviceInput
}

func newDeviceInputManager(hw camera.Hardware, logger *slog.Logger) *deviceInputManager {
	return &deviceInputManager{hw: hw, logger: logger}
}

// preference order per position
var devicePreferences = map[camera.Position][]camera.DeviceType{
	camera.PositionBack:  {camera.DeviceDual, camera.DeviceWideAngle},
	camera.PositionFront: {camera.DeviceWideAngle},
}

func (m *deviceInputManager) discover(pos camera.Position) (camera.Device, error) {
	for _, t := range devicePreferences[pos] {
		d, err := m.hw.DefaultDevice(t, camera.MediaVideo, pos)
		if err == nil && d != nil {
			return d, nil
		}
	}
	return nil, camera.ErrNoDevice
}

// configure attaches the default camera (back, falling back to front). It is a
// no-op when an input is already active.
func (m *deviceInputManager) configure(tx *configTx) error {
	if m.active != nil {
		return nil
	}
	dev, err := m.discover(camera.PositionBack)
	if err != nil {
		dev, err = m.discover(camera.PositionFront)
	}
	if err != nil {
		return &ConfigError{Step: "video device", Err: err}
	}
	in, err := m.hw.NewDeviceInput(dev)
	if err != nil {
		return &ConfigError{Step: "video device input", Err: err}
	}
	if !tx.addInput(in) {
		return &ConfigError{Step: "video device input", Err: ErrCannotAddInput}
	}
	m.active = in
	if m.logger != nil {
		m.logger.Debug("video input attached", "device", dev.Name(), "position", dev.Position().String())
	}
	return nil
}

// swap replaces the active camera with one facing the other way. The caller
// brackets it with Begin/CommitConfiguration. On failure the old input stays.
func (m *deviceInputManager) swap(session camera.Session) error {
	if m.active == nil {
		return ErrNoActiveInput
	}
	target := m.active.Device().Position().Opposite()
	dev, err := m.discover(target)
	if err != nil {
		return fmt.Errorf("capture: discover %s camera: %w", target, err)
	}
	in, err := m.hw.NewDeviceInput(dev)
	if err != nil {
		return fmt.Errorf("capture: open %s camera: %w", target, err)
	}
	old := m.active
	session.RemoveInput(old)
	if !session.CanAddInput(in) {
		session.AddInput(old)
		return &ConfigError{Step: "swap camera", Err: ErrCannotAddInput}
	}
	session.AddInput(in)
	m.active = in
	if m.logger != nil {
		m.logger.Info("camera changed", "position", target.String(), "device", dev.Name())
	}
	return nil
}

func (m *deviceInputManager) position() camera.Position {
	if m.active == nil {
		return camera.PositionUnspecified
	}
	return m.active.Device().Position()
}
