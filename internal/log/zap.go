package log

import (
	"go.uber.org/zap"
)

// Logger is the process-wide logger. It is a no-op logger until one of the
// Init functions is called.
var Logger = zap.NewNop()

func InitProductionLogger() {
	setLogger(zap.NewProduction())
}

func InitDevelopmentLogger() {
	setLogger(zap.NewDevelopment())
}

// setLogger installs l, or a no-op logger when it could not be built.
func setLogger(l *zap.Logger, err error) {
	if err != nil || l == nil {
		l = zap.NewNop()
	}
	Logger = l
}

// Init selects the development logger when verbose is set.
func Init(verbose bool) *zap.Logger {
	if verbose {
		InitDevelopmentLogger()
	} else {
		InitProductionLogger()
	}
	return Logger
}
