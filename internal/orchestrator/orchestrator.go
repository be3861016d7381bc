// Package orchestrator implements the top-level lifecycle operations from
// spec §4.8: the only entry point permitted to mutate an asset's layer.
// The layer-migrating operations (PublishToWeb, InscribeOnBitcoin) validate
// the transition against the state machine, consult adapters, append to the
// provenance ledger, issue a migration credential, and emit events — in
// that fixed order. TransferOwnership checks the btco layer directly and
// issues no credential; CreateAsset only mints the aggregate and emits
// asset:created.
package orchestrator

import (
	"context"
	"log"
	"time"

	"github.com/onirigin/originals-engine/internal/adapters"
	"github.com/onirigin/originals-engine/internal/asset"
	"github.com/onirigin/originals-engine/internal/config"
	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/internal/events"
	"github.com/onirigin/originals-engine/internal/identity"
	"github.com/onirigin/originals-engine/pkg/models"
)

// Engine is the lifecycle orchestrator. It owns no asset state itself —
// every operation takes an *asset.Asset and mutates it in place, returning
// it to the sole ownership of the caller once the operation completes.
type Engine struct {
	cfg      config.EngineConfig
	keystore adapters.KeyStore
	issuer   adapters.CredentialIssuer
	bus      *events.Bus
	logger   *log.Logger
}

// New validates cfg and constructs an Engine. A keystore is required since
// createAsset always mints new key material; bus defaults to a private,
// unshared event bus when nil.
func New(cfg config.EngineConfig, keystore adapters.KeyStore, issuer adapters.CredentialIssuer, bus *events.Bus) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if keystore == nil {
		return nil, enginerr.New(enginerr.InvalidInput, "a keystore is required")
	}
	if bus == nil {
		bus = events.New()
	}
	return &Engine{cfg: cfg, keystore: keystore, issuer: issuer, bus: bus, logger: cfg.NewLogger("orchestrator: ")}, nil
}

// Events exposes the engine's bus so callers can subscribe before issuing
// operations.
func (e *Engine) Events() *events.Bus {
	return e.bus
}

// CreateAsset constructs a new aggregate with a freshly generated
// peer-layer identifier. Preconditions: every resource passes structural
// validation (spec §4.1). Emits asset:created.
func (e *Engine) CreateAsset(ctx context.Context, resources []models.Resource) (*asset.Asset, error) {
	key, err := e.keystore.GenerateKey(ctx, string(e.cfg.DefaultKeyType))
	if err != nil {
		return nil, enginerr.Wrap(enginerr.InvalidInput, "generating peer key material", err)
	}

	primary := identity.NewPeerIdentifier(key.PublicKey)
	a, err := asset.New(primary, resources, time.Now())
	if err != nil {
		return nil, err
	}

	e.bus.Emit(events.AssetCreated, events.AssetCreatedPayload{PrimaryIdentifier: a.PrimaryIdentifier})
	return a, nil
}
