package tree

import "sync"

// readyAction is a callback waiting for the tree to become ready.
type readyAction struct {
	fn  func(arg any)
	arg any
}

// readyActions keys callbacks by kind so re-registering the same kind
// replaces the earlier callback instead of stacking a duplicate.
type readyActions struct {
	mu      sync.Mutex
	actions map[string]readyAction
}

func (r *readyActions) set(kind string, fn func(arg any), arg any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.actions == nil {
		r.actions = make(map[string]readyAction)
	}
	r.actions[kind] = readyAction{fn: fn, arg: arg}
}

// take removes and returns all registered actions, so each fires at
// most once per readiness transition.
func (r *readyActions) take() []readyAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.actions) == 0 {
		return nil
	}
	out := make([]readyAction, 0, len(r.actions))
	for _, a := range r.actions {
		out = append(out, a)
	}
	r.actions = nil
	return out
}

func (r *readyActions) empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actions) == 0
}
