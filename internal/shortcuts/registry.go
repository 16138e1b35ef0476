// Package shortcuts maps logical actions to global key combinations and keeps
// the OS registrations, the in-memory bindings and the persisted bindings in
// agreement.
package shortcuts

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Registrar owns OS-level global hotkeys
type Registrar interface {
	Register(accelerator string, fn func()) error
	Unregister(accelerator string) error
	UnregisterAll()
	IsRegistered(accelerator string) bool
}

// Registry is the single owner of the shortcut bindings.
//
// Every mutation runs a full unregister/re-register pass of the applicable
// set under one mutex, so two passes never interleave.
type Registry struct {
	mu              sync.Mutex
	state           State
	handlers        map[Action]func()
	bound           map[Action]bool
	movementEnabled bool

	registrar Registrar
	store     Store
	log       logrus.FieldLogger
}

// NewRegistry loads persisted bindings over the platform defaults. Nothing is
// registered with the OS until Apply is called.
func NewRegistry(registrar Registrar, store Store, log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	state, err := LoadState(store)
	if err != nil {
		log.WithError(err).Warn("Failed to load shortcuts, using defaults")
	}

	return &Registry{
		state:     state,
		handlers:  make(map[Action]func()),
		bound:     make(map[Action]bool),
		registrar: registrar,
		store:     store,
		log:       log,
	}
}

// Bind sets the callback fired when the hotkey for action is pressed
func (r *Registry) Bind(action Action, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[action] = fn
}

// State returns a copy of the current and default bindings
func (r *Registry) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.clone()
}

// MovementEnabled reports whether movement hotkeys are part of the applicable set
func (r *Registry) MovementEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.movementEnabled
}

// Update rebinds action to value, or to its default when value is nil.
//
// On success the new bindings are persisted before returning. When the OS
// refuses the binding the previous value is restored and re-registered, and a
// *RegistrationFailedError is returned with the state unchanged.
func (r *Registry) Update(name string, value *string) (State, error) {
	action, err := ParseAction(name)
	if err != nil {
		return State{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	resolved := r.state.Defaults[action]
	if value != nil {
		resolved = *value
	}
	resolved = strings.TrimSpace(resolved)
	if resolved == "" {
		return State{}, ErrEmptyValue
	}

	previous := r.state.Current[action]
	if resolved == previous {
		return r.state.clone(), nil
	}

	entry := r.log.WithFields(logrus.Fields{"action": action, "shortcut": resolved})

	r.state.Current[action] = resolved
	r.applyLocked()

	if r.applicableLocked(action) && !r.verifyLocked(action, resolved) {
		entry.Warn("Shortcut registration rejected, reverting")
		r.state.Current[action] = previous
		r.applyLocked()
		return State{}, &RegistrationFailedError{Action: action, Value: resolved}
	}

	if err := r.store.Save(r.state.Record()); err != nil {
		entry.WithError(err).Error("Failed to persist shortcuts")
	}
	entry.Info("Shortcut updated")

	return r.state.clone(), nil
}

// Apply re-registers the applicable set from scratch
func (r *Registry) Apply() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyLocked()
}

// SetMovementEnabled toggles movement hotkeys and re-registers when it changes
func (r *Registry) SetMovementEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.movementEnabled == enabled {
		return
	}
	r.movementEnabled = enabled
	r.applyLocked()
}

// Close drops every OS registration
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registrar.UnregisterAll()
	r.bound = make(map[Action]bool)
}

func (r *Registry) applicableLocked(action Action) bool {
	return !action.IsMovement() || r.movementEnabled
}

func (r *Registry) verifyLocked(action Action, value string) bool {
	return r.bound[action] && r.registrar.IsRegistered(value)
}

func (r *Registry) applyLocked() {
	r.registrar.UnregisterAll()
	r.bound = make(map[Action]bool)

	for _, action := range Actions {
		if !r.applicableLocked(action) {
			continue
		}
		accelerator := r.state.Current[action]
		if accelerator == "" {
			continue
		}
		if err := r.registrar.Register(accelerator, r.trigger(action)); err != nil {
			r.log.WithFields(logrus.Fields{
				"action":   action,
				"shortcut": accelerator,
			}).WithError(err).Warn("Failed to register shortcut")
			continue
		}
		r.bound[action] = true
	}
}

func (r *Registry) trigger(action Action) func() {
	return func() {
		r.mu.Lock()
		fn := r.handlers[action]
		r.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
}
