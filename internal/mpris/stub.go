//go:build !linux

package mpris

import (
	"go.uber.org/zap"

	"github.com/llehouerou/tuner/internal/playback"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ playback.Service, _ *zap.SugaredLogger) *Adapter {
	return &Adapter{}
}

// Start is a no-op on non-Linux platforms.
func (a *Adapter) Start() {}

// Stop is a no-op on non-Linux platforms.
func (a *Adapter) Stop() {}
