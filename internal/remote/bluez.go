package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/llehouerou/mediaplayerd/internal/errmsg"
)

const (
	bluezDest            = "org.bluez"
	bluezDeviceInterface = "org.bluez.Device1"
	bluezControlIface    = "org.bluez.MediaControl1"
	bluezPlayerIface     = "org.bluez.MediaPlayer1"
	dbusPropertiesIface  = "org.freedesktop.DBus.Properties"
	defaultAdapter       = "hci0"
)

// BlueZ controls a paired device's media player over the system bus.
type BlueZ struct {
	conn   *dbus.Conn
	device dbus.ObjectPath
	logger *zap.Logger
}

// DevicePath returns the BlueZ object path of a device. device is either an
// object path or a MAC address on the default adapter.
func DevicePath(device string) dbus.ObjectPath {
	if strings.HasPrefix(device, "/") {
		return dbus.ObjectPath(device)
	}
	addr := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(device)), ":", "_")
	return dbus.ObjectPath("/org/bluez/" + defaultAdapter + "/dev_" + addr)
}

// NewBlueZ connects to the system bus for the given device.
func NewBlueZ(device string, logger *zap.Logger) (*BlueZ, error) {
	if device == "" {
		return nil, fmt.Errorf("no bluetooth device configured")
	}
	path := DevicePath(device)
	if !path.IsValid() {
		return nil, fmt.Errorf("invalid bluetooth device %q", device)
	}
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlueZ{conn: conn, device: path, logger: logger}, nil
}

// Send forwards an action. Link actions call Device1; the rest go to the
// media player the device advertises.
func (b *BlueZ) Send(ctx context.Context, action string) error {
	device := b.conn.Object(bluezDest, b.device)

	var call *dbus.Call
	switch action {
	case ActionConnect:
		call = device.CallWithContext(ctx, bluezDeviceInterface+".Connect", 0)
	case ActionDisconnect:
		call = device.CallWithContext(ctx, bluezDeviceInterface+".Disconnect", 0)
	default:
		playerPath, err := b.playerPath()
		if err != nil {
			return err
		}
		call = b.conn.Object(bluezDest, playerPath).CallWithContext(ctx, bluezPlayerIface+"."+action, 0)
	}
	if call.Err != nil {
		b.logger.Warn(errmsg.FormatWith(errmsg.OpRemoteSend, action, call.Err))
		return call.Err
	}
	return nil
}

// Connected reads the device's current media control state.
func (b *BlueZ) Connected() (bool, error) {
	v, err := b.conn.Object(bluezDest, b.device).GetProperty(bluezControlIface + ".Connected")
	if err != nil {
		return false, err
	}
	connected, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("unexpected Connected type %s", v.Signature())
	}
	return connected, nil
}

// Watch reports media control connection changes until ctx is done.
func (b *BlueZ) Watch(ctx context.Context, fn func(connected bool)) error {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(b.device),
		dbus.WithMatchInterface(dbusPropertiesIface),
		dbus.WithMatchMember("PropertiesChanged"),
	}
	if err := b.conn.AddMatchSignal(opts...); err != nil {
		return err
	}
	defer func() { _ = b.conn.RemoveMatchSignal(opts...) }()

	signals := make(chan *dbus.Signal, 16)
	b.conn.Signal(signals)
	defer b.conn.RemoveSignal(signals)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-signals:
			if !ok {
				return nil
			}
			if connected, ok := connectedChange(sig, b.device); ok {
				b.logger.Info("remote peer state changed", zap.Bool("connected", connected))
				fn(connected)
			}
		}
	}
}

// Close releases the bus connection.
func (b *BlueZ) Close() error {
	return b.conn.Close()
}

func (b *BlueZ) playerPath() (dbus.ObjectPath, error) {
	v, err := b.conn.Object(bluezDest, b.device).GetProperty(bluezControlIface + ".Player")
	if err != nil {
		return "", err
	}
	path, ok := v.Value().(dbus.ObjectPath)
	if !ok || !path.IsValid() {
		return "", fmt.Errorf("device %s has no media player", b.device)
	}
	return path, nil
}

// connectedChange extracts a MediaControl1 Connected change from a
// PropertiesChanged signal.
func connectedChange(sig *dbus.Signal, device dbus.ObjectPath) (bool, bool) {
	if sig == nil || sig.Path != device || len(sig.Body) < 2 {
		return false, false
	}
	if iface, _ := sig.Body[0].(string); iface != bluezControlIface {
		return false, false
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return false, false
	}
	v, ok := changed["Connected"]
	if !ok {
		return false, false
	}
	connected, ok := v.Value().(bool)
	return connected, ok
}

// Verify BlueZ implements Controller at compile time.
var _ Controller = (*BlueZ)(nil)
