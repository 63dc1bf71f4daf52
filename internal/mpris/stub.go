//go:build !linux

package mpris

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tempo/internal/playback"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(context.Context, playback.Service, logrus.FieldLogger) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
