package logging

import "github.com/sirupsen/logrus"

// WailsLogger routes Wails runtime logs into logrus. It satisfies
// github.com/wailsapp/wails/v2/pkg/logger.Logger.
type WailsLogger struct {
	Entry logrus.FieldLogger
}

// NewWailsLogger tags every runtime message with component=wails.
func NewWailsLogger(log logrus.FieldLogger) *WailsLogger {
	return &WailsLogger{Entry: log.WithField("component", "wails")}
}

func (l *WailsLogger) Print(message string)   { l.Entry.Info(message) }
func (l *WailsLogger) Trace(message string)   { l.Entry.Debug(message) }
func (l *WailsLogger) Debug(message string)   { l.Entry.Debug(message) }
func (l *WailsLogger) Info(message string)    { l.Entry.Info(message) }
func (l *WailsLogger) Warning(message string) { l.Entry.Warn(message) }
func (l *WailsLogger) Error(message string)   { l.Entry.Error(message) }

// Fatal logs at error level; Wails decides whether to exit.
func (l *WailsLogger) Fatal(message string) { l.Entry.Error(message) }
