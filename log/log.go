// Package log constructs the logrus loggers used across the engine.
// Debug logging on the pull path is costly, so it is opted into through
// the GRAPH_DEBUG environment variable rather than a code-level switch.
package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

var debug = func() bool {
	v, err := strconv.ParseBool(os.Getenv("GRAPH_DEBUG"))
	return err == nil && v
}()

// GetLogger returns a new logger instance, at debug level when
// GRAPH_DEBUG is set.
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}
