package keymap

import (
	"slices"
	"strings"
)

// Resolver maps key strings to actions for one set of bindings.
type Resolver struct {
	bindings []Binding
	byKey    map[string]Action
	byAction map[Action][]string
}

// NewResolver creates a resolver from bindings. When two bindings claim the
// same key the earlier one wins.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: bindings,
		byKey:    make(map[string]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			if _, taken := r.byKey[key]; !taken {
				r.byKey[key] = b.Action
			}
			if !slices.Contains(r.byAction[b.Action], key) {
				r.byAction[b.Action] = append(r.byAction[b.Action], key)
			}
		}
	}
	return r
}

// ForContext creates a resolver for the bindings of one screen context.
func ForContext(context string) *Resolver {
	return NewResolver(ByContext(context))
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(key string) Action {
	return r.byKey[key]
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}

// Controls renders the one-line help, e.g.
// "Controls: [n]ext, [b]ack, [s]earch, [q]uit". Each action is listed once,
// under its first key.
func (r *Resolver) Controls() string {
	parts := make([]string, 0, len(r.bindings))
	seen := make(map[Action]bool)
	for _, b := range r.bindings {
		if seen[b.Action] {
			continue
		}
		seen[b.Action] = true
		parts = append(parts, label(b.Keys[0], b.Description))
	}
	return "Controls: " + strings.Join(parts, ", ")
}

// label marks the key inside the description when the description starts
// with it: "[n]ext", otherwise "[G] last".
func label(key, description string) string {
	if len(key) == 1 && strings.HasPrefix(description, key) {
		return "[" + key + "]" + description[1:]
	}
	return "[" + key + "] " + description
}
