package eventmap

import (
	"sync"

	"github.com/agentstation/eventmap/pkg/events"
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hooks provides event callback registration.
type Hooks interface {
	// OnRecordMerged registers a callback for when a duplicate is folded into its survivor
	OnRecordMerged(RecordMergedHook)

	// OnCountryUnresolved registers a callback for country names that match no definition
	OnCountryUnresolved(CountryUnresolvedHook)
}

// Hook function types for reconciliation events.
type (
	// RecordMergedHook is called after absorbed has been folded into survivor
	// and before absorbed is dropped from the collection.
	RecordMergedHook func(survivor, absorbed *events.Record)

	// CountryUnresolvedHook is called with the raw country name of every
	// record that did not resolve.
	CountryUnresolvedHook func(country string, record *events.Record)
)

// hooks manages event callbacks for reconciliation passes.
type hooks struct {
	mu                  sync.RWMutex
	onRecordMerged      []RecordMergedHook
	onCountryUnresolved []CountryUnresolvedHook
}

// newHooks creates a new hooks instance.
func newHooks() *hooks {
	return &hooks{}
}

// OnRecordMerged registers a callback for when a duplicate is folded into its survivor.
func (c *client) OnRecordMerged(fn RecordMergedHook) {
	if fn == nil {
		return
	}
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onRecordMerged = append(c.hooks.onRecordMerged, fn)
}

// OnCountryUnresolved registers a callback for country names that match no definition.
func (c *client) OnCountryUnresolved(fn CountryUnresolvedHook) {
	if fn == nil {
		return
	}
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onCountryUnresolved = append(c.hooks.onCountryUnresolved, fn)
}

// triggerRecordMerged runs the merge callbacks. Hooks run synchronously
// inside the pass, so they must not modify the collection.
func (h *hooks) triggerRecordMerged(survivor, absorbed *events.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onRecordMerged {
		hook(survivor, absorbed)
	}
}

// triggerCountryUnresolved runs the unresolved-country callbacks.
func (h *hooks) triggerCountryUnresolved(record *events.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onCountryUnresolved {
		hook(record.CountryName, record)
	}
}
