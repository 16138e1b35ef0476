package platform

import (
	"github.com/sirupsen/logrus"

	"sunless-desktop/internal/ipc"
)

// ForwardEvents relays every controller event on bus to the webview. The
// returned func detaches the forwarders.
func ForwardEvents(bus *ipc.Bus, win *Window, log logrus.FieldLogger) func() {
	if log == nil {
		log = logrus.StandardLogger()
	}
	unsubs := make([]func(), 0, len(ipc.Events))
	for _, name := range ipc.Events {
		name := name
		unsubs = append(unsubs, bus.Subscribe(name, func(payload any) {
			ctx := win.runtimeContext()
			if ctx == nil {
				log.WithField("event", name).Warn("Runtime event dropped because app context is nil")
				return
			}
			if payload == nil {
				runtimeEventsEmitFn(ctx, name)
				return
			}
			runtimeEventsEmitFn(ctx, name, payload)
		}))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
