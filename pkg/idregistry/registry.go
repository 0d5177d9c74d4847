package idregistry

import "fmt"

// Handle is a dense integer standing in for an object UID inside one
// Registry instance. Handles are never reused.
type Handle int64

// invalidHandle is returned by lookups that miss; callers should check the
// accompanying bool rather than compare against this directly.
const invalidHandle Handle = -1

// Registry assigns stable, monotonically increasing handles to UIDs.
type Registry struct {
	uidToHandle map[string]Handle
	handleToUID []string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		uidToHandle: make(map[string]Handle),
	}
}

// AssignOrGet returns the handle for uid, assigning a new one if uid has
// never been seen by this registry. wasNew reports whether a new handle
// was minted.
func (r *Registry) AssignOrGet(uid string) (handle Handle, wasNew bool) {
	if h, ok := r.uidToHandle[uid]; ok {
		return h, false
	}

	next := len(r.handleToUID)
	if next < 0 {
		// len() of a slice can never be negative, but guard the handle
		// space explicitly since Handle is a signed, counter-backed type.
		panic("idregistry: handle counter overflow")
	}

	h := Handle(next)
	r.uidToHandle[uid] = h
	r.handleToUID = append(r.handleToUID, uid)
	return h, true
}

// HandleOf returns the handle assigned to uid, if any.
func (r *Registry) HandleOf(uid string) (Handle, bool) {
	h, ok := r.uidToHandle[uid]
	return h, ok
}

// UIDOf returns the UID assigned to handle, if any.
func (r *Registry) UIDOf(handle Handle) (string, bool) {
	idx := int64(handle)
	if idx < 0 || idx >= int64(len(r.handleToUID)) {
		return "", false
	}
	return r.handleToUID[idx], true
}

// Len returns the number of UIDs this registry has ever assigned a handle
// to.
func (r *Registry) Len() int {
	return len(r.handleToUID)
}

func (h Handle) String() string {
	return fmt.Sprintf("#%d", int64(h))
}
