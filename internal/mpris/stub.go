//go:build !linux

package mpris

import (
	"go.uber.org/zap"
)

// Commands is unused on non-Linux platforms.
type Commands any

// Status is unused on non-Linux platforms.
type Status any

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ string, _ Commands, _ Status, _ *zap.Logger) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
