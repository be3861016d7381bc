// Package asset implements the Asset Aggregate from spec §3: the entity
// bundling a primary identifier, resources, bindings, provenance ledger,
// and credentials. The orchestrator is the only caller permitted to mutate
// an aggregate; callers serialize operations on a given instance.
package asset

import (
	"time"

	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/internal/identity"
	"github.com/onirigin/originals-engine/internal/ledger"
	"github.com/onirigin/originals-engine/internal/resource"
	"github.com/onirigin/originals-engine/pkg/models"
)

// Asset owns its resources, bindings, provenance ledger, credentials, and
// current layer for its exclusive lifetime. It does not own the adapter
// handles the orchestrator consults on its behalf.
type Asset struct {
	PrimaryIdentifier string
	CurrentLayer      identity.Layer
	Resources         []models.Resource
	Bindings          map[string]string
	Ledger            *ledger.ProvenanceLedger
	Credentials       []models.Credential
	// CurrentAddress is the Bitcoin address currently holding the
	// inscribed satoshi, set by the first and subsequent transfers; it is
	// empty before the asset reaches the btco layer.
	CurrentAddress string
}

// New constructs an aggregate from a freshly minted primary identifier.
// The identifier's prefix must resolve to a recognized layer (spec §4.3);
// resources must each pass structural validation (spec §4.1).
func New(primaryIdentifier string, resources []models.Resource, createdAt time.Time) (*Asset, error) {
	layer, err := identity.LayerOf(primaryIdentifier)
	if err != nil {
		return nil, err
	}
	for _, r := range resources {
		if err := resource.Validate(r); err != nil {
			return nil, err
		}
	}
	return &Asset{
		PrimaryIdentifier: primaryIdentifier,
		CurrentLayer:      layer,
		Resources:         append([]models.Resource(nil), resources...),
		Bindings:          map[string]string{},
		Ledger:            ledger.New(primaryIdentifier, createdAt),
	}, nil
}

// Bind records an identifier under a layer tag. Bindings monotonically
// grow; existing entries are never removed, only overwritten by a later
// binding for the same tag (e.g. a republish setting a fresh did:webvh).
func (a *Asset) Bind(tag, id string) {
	a.Bindings[tag] = id
}

// SetResourceURL updates the URL of the resource with the given id,
// leaving its digest and content untouched. Per spec §9's open question on
// repeated-publish semantics, later calls overwrite earlier URLs —
// mirroring the source's observed overwrite behavior.
func (a *Asset) SetResourceURL(resourceID, url string) error {
	for i := range a.Resources {
		if a.Resources[i].ID == resourceID {
			a.Resources[i].URL = url
			return nil
		}
	}
	return enginerr.Newf(enginerr.InvalidInput, "unknown resource id %q", resourceID)
}

// AddCredential attaches an immutable credential record.
func (a *Asset) AddCredential(c models.Credential) {
	a.Credentials = append(a.Credentials, c)
}

// SetLayer advances the aggregate's current layer. Callers must have
// already validated the transition via internal/statemachine; this setter
// does not re-validate.
func (a *Asset) SetLayer(l identity.Layer) {
	a.CurrentLayer = l
}

// Slug derives the asset-slug path segment used in storage object keys and
// did:webvh identifiers, from the primary identifier's trailing segment.
func (a *Asset) Slug() string {
	id := a.PrimaryIdentifier
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == ':' {
			return id[i+1:]
		}
	}
	return id
}
