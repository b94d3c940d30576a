package quote

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// observerLogger returns a logger recording warnings and errors.
func observerLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return zap.New(core), logs
}
