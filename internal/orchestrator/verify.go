package orchestrator

import (
	"context"

	"github.com/onirigin/originals-engine/internal/adapters"
	"github.com/onirigin/originals-engine/internal/asset"
	"github.com/onirigin/originals-engine/internal/identity"
	"github.com/onirigin/originals-engine/internal/resource"
	"github.com/onirigin/originals-engine/pkg/models"
)

// Verify validates structural invariants on a: the primary identifier's
// layer matches CurrentLayer, every resource passes §4.1, and every
// credential is structurally valid; when verifier is non-nil each
// credential's proof is also cryptographically checked. Pure: never
// mutates a, never errors — callers get a bool.
func (e *Engine) Verify(ctx context.Context, a *asset.Asset, fetcher resource.Fetcher, verifier adapters.CredentialVerifier) bool {
	layer, err := identity.LayerOf(a.PrimaryIdentifier)
	if err != nil || layer != a.CurrentLayer {
		return false
	}

	for _, r := range a.Resources {
		if !resource.Verify(ctx, r, fetcher) {
			return false
		}
	}

	for _, c := range a.Credentials {
		if !structurallyValidCredential(c) {
			return false
		}
		if verifier == nil {
			continue
		}
		payload, err := canonicalCredentialPayload(c)
		if err != nil {
			return false
		}
		ok, err := verifier.Verify(ctx, c.Issuer, payload, c.Proof)
		if err != nil || !ok {
			return false
		}
	}

	return true
}

func structurallyValidCredential(c models.Credential) bool {
	if c.Subject == "" || c.Issuer == "" {
		return false
	}
	switch c.Type {
	case models.CredentialResourceCreation, models.CredentialResourceMigration, models.CredentialTransfer:
	default:
		return false
	}
	if c.IssuedAt.IsZero() {
		return false
	}
	return true
}
