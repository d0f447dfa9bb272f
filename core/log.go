package core

import "github.com/sirupsen/logrus"

// Logger is the narrow interface solver.Context depends on, satisfied by
// *logrus.Logger and *logrus.Entry. Kept as an interface (rather than
// importing logrus everywhere) so packages below solver/ don't need to
// carry a logrus import just to log a diagnostic.
type Logger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
}

// NewLogger returns the package-wide default logger, a plain logrus
// logger writing text lines. solver.New installs it as the Context's
// Logger; Options has no logger setting.
func NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	return l
}

// LogError reports a SolverError through logger at the severity implied
// by its Kind (Warn for recoverable query-aborting kinds, Error for the
// fatal ones).
func LogError(logger Logger, err *SolverError) {
	entry := logger.WithFields(logrus.Fields{
		"kind":   err.Kind.String(),
		"system": err.System,
		"op":     err.Op,
	})
	if err.Kind.Fatal() {
		entry.Error(err.Message)
	} else {
		entry.Warn(err.Message)
	}
}
