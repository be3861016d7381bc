package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/onirigin/originals-engine/internal/asset"
	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/internal/events"
	"github.com/onirigin/originals-engine/internal/identity"
	"github.com/onirigin/originals-engine/internal/statemachine"
	"github.com/onirigin/originals-engine/pkg/models"
)

// PublishToWeb migrates a from peer to webvh, storing each resource under
// the deterministic webvh object key shape and binding a did:webvh
// identifier. See spec §4.8.
func (e *Engine) PublishToWeb(ctx context.Context, a *asset.Asset, domain string) error {
	if err := statemachine.Validate(a.CurrentLayer, identity.LayerWebvh); err != nil {
		return err
	}
	if domain == "" {
		return enginerr.New(enginerr.InvalidInput, "domain is required")
	}
	if e.cfg.StorageAdapter == nil {
		return enginerr.New(enginerr.StorageError, "no storage adapter configured")
	}

	slug := a.Slug()
	urls := make(map[string]string, len(a.Resources))
	for _, r := range a.Resources {
		objectKey := fmt.Sprintf("%s/.well-known/webvh/%s/%s", domain, slug, r.ID)
		url, err := e.cfg.StorageAdapter.Put(ctx, objectKey, r.Content, r.ContentType)
		if err != nil {
			return enginerr.Wrap(enginerr.StorageError, "storing resource "+r.ID, err)
		}
		urls[r.ID] = url
	}

	for id, url := range urls {
		if err := a.SetResourceURL(id, url); err != nil {
			return err
		}
	}

	webvhID := identity.NewWebvhIdentifier(domain, slug)
	a.Bind("did:webvh", webvhID)

	now := time.Now()
	if err := a.Ledger.AppendMigration(models.MigrationEntry{
		FromLayer: string(identity.LayerPeer),
		ToLayer:   string(identity.LayerWebvh),
		Timestamp: now,
	}); err != nil {
		return err
	}
	fromLayer := a.CurrentLayer
	a.SetLayer(identity.LayerWebvh)

	credential, err := e.issueCredential(ctx, models.Credential{
		Type:      models.CredentialResourceMigration,
		Subject:   a.PrimaryIdentifier,
		Issuer:    a.PrimaryIdentifier,
		IssuedAt:  now,
		FromLayer: string(fromLayer),
		ToLayer:   string(identity.LayerWebvh),
	})
	if err != nil {
		return err
	}
	a.AddCredential(credential)

	for _, r := range a.Resources {
		e.bus.Emit(events.ResourcePublished, events.ResourcePublishedPayload{
			PrimaryIdentifier: a.PrimaryIdentifier, ResourceID: r.ID, Domain: domain,
		})
	}
	e.bus.Emit(events.CredentialIssued, events.CredentialIssuedPayload{
		PrimaryIdentifier: a.PrimaryIdentifier, CredentialType: string(credential.Type),
	})
	e.bus.Emit(events.AssetMigrated, events.AssetMigratedPayload{
		PrimaryIdentifier: a.PrimaryIdentifier, From: string(fromLayer), To: string(identity.LayerWebvh),
	})
	return nil
}
