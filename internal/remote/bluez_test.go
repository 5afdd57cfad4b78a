package remote

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

func TestDevicePath(t *testing.T) {
	tests := []struct {
		device string
		want   dbus.ObjectPath
	}{
		{"aa:bb:cc:dd:ee:ff", "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF"},
		{"/org/bluez/hci1/dev_11_22_33_44_55_66", "/org/bluez/hci1/dev_11_22_33_44_55_66"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DevicePath(tt.device))
	}
}

func TestConnectedChange(t *testing.T) {
	device := dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF")
	changed := func(iface string, props map[string]dbus.Variant) *dbus.Signal {
		return &dbus.Signal{
			Path: device,
			Name: dbusPropertiesIface + ".PropertiesChanged",
			Body: []any{iface, props, []string{}},
		}
	}

	tests := []struct {
		name      string
		sig       *dbus.Signal
		connected bool
		ok        bool
	}{
		{
			name:      "connected",
			sig:       changed(bluezControlIface, map[string]dbus.Variant{"Connected": dbus.MakeVariant(true)}),
			connected: true,
			ok:        true,
		},
		{
			name: "disconnected",
			sig:  changed(bluezControlIface, map[string]dbus.Variant{"Connected": dbus.MakeVariant(false)}),
			ok:   true,
		},
		{
			name: "other interface",
			sig:  changed(bluezDeviceInterface, map[string]dbus.Variant{"Connected": dbus.MakeVariant(true)}),
		},
		{
			name: "other property",
			sig:  changed(bluezControlIface, map[string]dbus.Variant{"Player": dbus.MakeVariant(dbus.ObjectPath("/p"))}),
		},
		{
			name: "other device",
			sig: &dbus.Signal{
				Path: "/org/bluez/hci0/dev_00",
				Body: []any{bluezControlIface, map[string]dbus.Variant{"Connected": dbus.MakeVariant(true)}},
			},
		},
		{name: "nil", sig: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connected, ok := connectedChange(tt.sig, device)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.connected, connected)
		})
	}
}
