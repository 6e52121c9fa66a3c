// Package logging owns the process-wide logrus logger. Components take a
// child entry tagged with their name:
//
//	log := logging.New("installer")
//	log.WithField("version", v).Info("update available")
package logging

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Setter changes a property of the root logger.
type Setter func(*logrus.Logger) error

var root = struct {
	logger *logrus.Logger
	mutex  *sync.Mutex
}{
	logger: newRoot(),
	mutex:  &sync.Mutex{},
}

func newRoot() *logrus.Logger {
	l := logrus.New()

	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return l
}

// New returns an entry for component, applying setters to the root logger
// first.
func New(component string, setters ...Setter) logrus.FieldLogger {
	for _, setter := range setters {
		// no errors handling for now
		_ = Set(setter)
	}
	return root.logger.WithField("component", component)
}

// Set applies setter to the root logger.
func Set(setter Setter) error {
	root.mutex.Lock()
	err := setter(root.logger)
	root.mutex.Unlock()
	return err
}

// Level sets the root level. An unparsable level is logged and falls back
// to info.
func Level(lvl string) Setter {
	l, err := logrus.ParseLevel(lvl)
	if err != nil {
		root.logger.WithError(err).Errorf("unable to parse provided level %q", lvl)
		l = logrus.InfoLevel
	}
	return func(r *logrus.Logger) error {
		r.SetLevel(l)
		return nil
	}
}

// Output sends error levels to errOut and everything else to out.
// Any hooks installed by an earlier Output are replaced.
func Output(out, errOut io.Writer) Setter {
	return func(r *logrus.Logger) error {
		r.SetOutput(io.Discard)
		hooks := make(logrus.LevelHooks)
		hooks.Add(&LogSplitHook{out, []logrus.Level{
			logrus.WarnLevel, logrus.InfoLevel, logrus.DebugLevel, logrus.TraceLevel}})
		hooks.Add(&LogSplitHook{errOut, []logrus.Level{
			logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}})
		r.ReplaceHooks(hooks)
		return nil
	}
}

// Formatter replaces the root formatter.
func Formatter(f logrus.Formatter) Setter {
	return func(r *logrus.Logger) error {
		r.SetFormatter(f)
		return nil
	}
}
