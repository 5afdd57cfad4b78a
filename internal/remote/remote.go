// Package remote forwards playback commands to a connected remote peer
// (a phone paired over Bluetooth AVRCP) instead of the local pipeline.
package remote

import (
	"context"

	"github.com/llehouerou/mediaplayerd/internal/errmsg"
)

// Link actions. They are forwarded verbatim, whatever the peer state.
const (
	ActionConnect    = "connect"
	ActionDisconnect = "disconnect"
)

// Controller forwards remote-control actions to the peer.
type Controller interface {
	Send(ctx context.Context, action string) error
}

// actions maps local command names to the remote vocabulary. A command
// mapped to "" exists locally but has no remote equivalent.
var actions = map[string]string{
	"play":         "Play",
	"pause":        "Pause",
	"stop":         "Stop",
	"next":         "Next",
	"previous":     "Previous",
	"fast-forward": "FastForward",
	"rewind":       "Rewind",
	"seek":         "",
	"pick-track":   "",
	"volume":       "",
	"loop":         "",
}

// IsLinkAction reports whether command controls the link itself.
func IsLinkAction(command string) bool {
	return command == ActionConnect || command == ActionDisconnect
}

// ActionFor translates a command name into the remote action to send.
func ActionFor(command string) (string, error) {
	if IsLinkAction(command) {
		return command, nil
	}
	action, ok := actions[command]
	if !ok {
		return "", errmsg.Unsupported(errmsg.ReasonUnknownCommand)
	}
	if action == "" {
		return "", errmsg.Unsupported(errmsg.ReasonNotSupported)
	}
	return action, nil
}

// Forward translates command and sends it through c. Controller failures are
// reported as delegation failures.
func Forward(ctx context.Context, c Controller, command string) error {
	action, err := ActionFor(command)
	if err != nil {
		return err
	}
	if c == nil {
		return errmsg.Delegation(errmsg.ErrUnsupported)
	}
	if err := c.Send(ctx, action); err != nil {
		return errmsg.Delegation(err)
	}
	return nil
}
