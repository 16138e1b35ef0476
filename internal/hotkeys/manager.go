package hotkeys

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.design/x/hotkey"
)

// ErrAlreadyRegistered is returned when the same key combination is registered twice.
var ErrAlreadyRegistered = errors.New("hotkey already registered")

type osHotkey interface {
	Register() error
	Unregister() error
	Keydown() <-chan hotkey.Event
}

func newOSHotkey(mods []hotkey.Modifier, key hotkey.Key) osHotkey {
	return hotkey.New(mods, key)
}

type registration struct {
	accelerator string
	hk          osHotkey
	done        chan struct{}
}

// Manager owns the process's global hotkey registrations.
type Manager struct {
	mu        sync.Mutex
	regs      map[string]*registration
	newHotkey func([]hotkey.Modifier, hotkey.Key) osHotkey
	log       logrus.FieldLogger
}

// NewManager creates a manager backed by golang.design/x/hotkey.
func NewManager(log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		regs:      make(map[string]*registration),
		newHotkey: newOSHotkey,
		log:       log,
	}
}

// Register binds accelerator to fn. fn runs on its own goroutine for every
// key press so a slow callback never blocks the OS event loop.
func (m *Manager) Register(accelerator string, fn func()) error {
	binding, err := ParseAccelerator(accelerator)
	if err != nil {
		return err
	}
	key, ok := keyCodes[binding.Key()]
	if !ok {
		return fmt.Errorf("unsupported key %q", binding.Key())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := binding.Normalized()
	if _, exists := m.regs[id]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, id)
	}

	hk := m.newHotkey(osModifiers(binding.Modifiers()), key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register hotkey %s: %w", id, err)
	}

	reg := &registration{
		accelerator: accelerator,
		hk:          hk,
		done:        make(chan struct{}),
	}
	m.regs[id] = reg
	go m.listen(reg, fn)

	m.log.WithField("shortcut", id).Debug("Hotkey registered")
	return nil
}

func (m *Manager) listen(reg *registration, fn func()) {
	keydown := reg.hk.Keydown()
	for {
		select {
		case <-reg.done:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			if fn != nil {
				go fn()
			}
		}
	}
}

// Unregister releases accelerator. Releasing an unknown accelerator is a no-op.
func (m *Manager) Unregister(accelerator string) error {
	binding, err := ParseAccelerator(accelerator)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := binding.Normalized()
	reg, ok := m.regs[id]
	if !ok {
		return nil
	}
	delete(m.regs, id)
	return m.release(id, reg)
}

// UnregisterAll releases every registration.
func (m *Manager) UnregisterAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, reg := range m.regs {
		if err := m.release(id, reg); err != nil {
			m.log.WithField("shortcut", id).WithError(err).Warn("Failed to unregister hotkey")
		}
	}
	m.regs = make(map[string]*registration)
}

// IsRegistered reports whether accelerator is currently held by this process.
func (m *Manager) IsRegistered(accelerator string) bool {
	binding, err := ParseAccelerator(accelerator)
	if err != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.regs[binding.Normalized()]
	return ok
}

// Registered returns the accelerators as they were originally registered.
func (m *Manager) Registered() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.regs))
	for _, reg := range m.regs {
		out = append(out, reg.accelerator)
	}
	return out
}

func (m *Manager) release(id string, reg *registration) error {
	close(reg.done)
	if err := reg.hk.Unregister(); err != nil {
		return fmt.Errorf("unregister hotkey %s: %w", id, err)
	}
	return nil
}
