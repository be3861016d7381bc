// Package events implements the typed, awaited, in-order event bus from
// spec §4.7. Handlers are invoked sequentially per event type in
// subscription order; a panicking or error-returning handler is logged and
// isolated from its siblings, and never fails the emitting operation.
package events

import (
	"log"
	"sync"
)

// Type names one of the five event shapes the engine emits.
type Type string

const (
	AssetCreated        Type = "asset:created"
	AssetMigrated       Type = "asset:migrated"
	AssetTransferred    Type = "asset:transferred"
	ResourcePublished   Type = "resource:published"
	CredentialIssued    Type = "credential:issued"
)

// AssetCreatedPayload accompanies AssetCreated.
type AssetCreatedPayload struct {
	PrimaryIdentifier string
}

// AssetMigratedPayload accompanies AssetMigrated.
type AssetMigratedPayload struct {
	PrimaryIdentifier string
	From              string
	To                string
	TransactionID     string
	InscriptionID     string
	Satoshi           int64
}

// AssetTransferredPayload accompanies AssetTransferred.
type AssetTransferredPayload struct {
	PrimaryIdentifier string
	From              string
	To                string
	TransactionID     string
}

// ResourcePublishedPayload accompanies ResourcePublished.
type ResourcePublishedPayload struct {
	PrimaryIdentifier string
	ResourceID        string
	Domain            string
}

// CredentialIssuedPayload accompanies CredentialIssued.
type CredentialIssuedPayload struct {
	PrimaryIdentifier string
	CredentialType    string
}

// Handler receives an event payload. A returned error is logged and does
// not propagate to the emitter or to sibling handlers.
type Handler func(payload any) error

// Unsubscribe removes the handler it was returned for.
type Unsubscribe func()

type subscription struct {
	id      uint64
	handler Handler
	once    bool
}

// Bus is a typed, per-event-type ordered subscriber list. The zero value is
// not usable; construct with New.
type Bus struct {
	mu      sync.Mutex
	subs    map[Type][]*subscription
	nextID  uint64
}

// New constructs an empty event bus.
func New() *Bus {
	return &Bus{subs: make(map[Type][]*subscription)}
}

// On registers a handler invoked on every emission of eventType, in
// subscription order.
func (b *Bus) On(eventType Type, h Handler) Unsubscribe {
	return b.subscribe(eventType, h, false)
}

// Once registers a handler invoked on at most one emission of eventType.
func (b *Bus) Once(eventType Type, h Handler) Unsubscribe {
	return b.subscribe(eventType, h, true)
}

func (b *Bus) subscribe(eventType Type, h Handler, once bool) Unsubscribe {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &subscription{id: b.nextID, handler: h, once: once}
	b.subs[eventType] = append(b.subs[eventType], sub)
	id := sub.id
	return func() { b.off(eventType, id) }
}

// off removes the single subscription with the given id from eventType's
// list; it backs the Unsubscribe handle returned by On and Once.
func (b *Bus) off(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[eventType]
	for i, s := range subs {
		if s.id == id {
			b.subs[eventType] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Emit invokes every handler registered for eventType, sequentially, in
// subscription order, and returns once all have run. Handler errors are
// logged and isolated; Emit itself never returns an error.
func (b *Bus) Emit(eventType Type, payload any) {
	b.mu.Lock()
	subs := append([]*subscription(nil), b.subs[eventType]...)
	b.mu.Unlock()

	var fired []uint64
	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("events: handler for %s panicked: %v", eventType, r)
				}
			}()
			if err := s.handler(payload); err != nil {
				log.Printf("events: handler for %s returned error: %v", eventType, err)
			}
		}()
		if s.once {
			fired = append(fired, s.id)
		}
	}
	if len(fired) > 0 {
		b.mu.Lock()
		for _, id := range fired {
			subs := b.subs[eventType]
			for i, s := range subs {
				if s.id == id {
					b.subs[eventType] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
		}
		b.mu.Unlock()
	}
}
