package shortcuts

import "strings"

// State is the snapshot handed to the UI
type State struct {
	Current  map[Action]string `json:"current"`
	Defaults map[Action]string `json:"defaults"`
}

// LoadState merges the bindings in store over the platform defaults. On a
// read error the defaults are returned along with the error.
func LoadState(store Store) (State, error) {
	defaults := Defaults()
	persisted, err := store.Load()
	if err != nil {
		persisted = nil
	}
	return State{
		Current:  merge(defaults, persisted),
		Defaults: defaults,
	}, err
}

// Record returns the current bindings in their persisted form.
func (s State) Record() map[string]string {
	return toRecord(s.Current)
}

func (s State) clone() State {
	return State{
		Current:  cloneMap(s.Current),
		Defaults: cloneMap(s.Defaults),
	}
}

func cloneMap(in map[Action]string) map[Action]string {
	out := make(map[Action]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// merge overlays persisted values on top of defaults. Unknown keys and blank
// values are dropped.
func merge(defaults map[Action]string, persisted map[string]string) map[Action]string {
	current := cloneMap(defaults)
	for key, value := range persisted {
		action := Action(key)
		if !action.Valid() {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		current[action] = value
	}
	return current
}

func toRecord(current map[Action]string) map[string]string {
	record := make(map[string]string, len(current))
	for k, v := range current {
		record[string(k)] = v
	}
	return record
}
