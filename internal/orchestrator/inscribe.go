package orchestrator

import (
	"context"
	"time"

	"github.com/onirigin/originals-engine/internal/adapters"
	"github.com/onirigin/originals-engine/internal/asset"
	"github.com/onirigin/originals-engine/internal/canonical"
	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/internal/events"
	"github.com/onirigin/originals-engine/internal/identity"
	"github.com/onirigin/originals-engine/internal/statemachine"
	"github.com/onirigin/originals-engine/pkg/models"
)

// inscriptionMetadata is the canonicalized on-chain payload for
// inscribeOnBitcoin: the asset's primary identifier, its resource list
// (digests only, never raw content), and its bindings.
type inscriptionMetadata struct {
	PrimaryIdentifier string                 `json:"primaryIdentifier"`
	Resources         []inscriptionResource  `json:"resources"`
	Bindings          map[string]string      `json:"bindings"`
}

type inscriptionResource struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	ContentType string `json:"contentType"`
	Hash        string `json:"hash"`
}

// InscribeOnBitcoin migrates a from peer or webvh to btco by creating a
// Bitcoin inscription carrying the asset's canonicalized metadata. See
// spec §4.8.
func (e *Engine) InscribeOnBitcoin(ctx context.Context, a *asset.Asset, feeRateHint float64) error {
	if err := statemachine.Validate(a.CurrentLayer, identity.LayerBtco); err != nil {
		return err
	}
	if e.cfg.OrdinalsProvider == nil {
		return enginerr.New(enginerr.OrdProviderRequired, "no ordinals provider configured")
	}

	feeRate := e.resolveFeeRate(ctx, feeRateHint)

	meta := inscriptionMetadata{
		PrimaryIdentifier: a.PrimaryIdentifier,
		Resources:         make([]inscriptionResource, 0, len(a.Resources)),
		Bindings:          a.Bindings,
	}
	for _, r := range a.Resources {
		meta.Resources = append(meta.Resources, inscriptionResource{
			ID: r.ID, Type: r.Type, ContentType: r.ContentType, Hash: r.Hash,
		})
	}
	payload, err := canonical.Encode(meta)
	if err != nil {
		return err
	}

	result, err := e.cfg.OrdinalsProvider.CreateInscription(ctx, adapters.InscriptionRequest{
		Data: payload, ContentType: "application/json", FeeRate: feeRate,
	})
	if err != nil {
		return err
	}
	if result.InscriptionID == "" || result.TxID == "" {
		return enginerr.New(enginerr.OrdProviderInvalidResponse,
			"ordinals provider returned no inscription id or no transaction id")
	}

	satoshi := result.Satoshi
	if satoshi == 0 {
		e.logger.Printf("inscription %s response omitted satoshi, looking it up", result.InscriptionID)
		info, found, err := e.cfg.OrdinalsProvider.GetInscriptionById(ctx, result.InscriptionID)
		if err == nil && found {
			satoshi = info.Satoshi
		}
	}
	if satoshi == 0 {
		return enginerr.New(enginerr.SatoshiRequired,
			"no satoshi number was returned or could be derived for the new inscription")
	}

	btcoID := identity.NewBtcoIdentifier(satoshi, identity.BtcoNetworkTag(string(e.cfg.Network)))
	a.Bind("did:btco", btcoID)

	now := time.Now()
	fromLayer := a.CurrentLayer
	if err := a.Ledger.AppendMigration(models.MigrationEntry{
		FromLayer:     string(fromLayer),
		ToLayer:       string(identity.LayerBtco),
		Timestamp:     now,
		TransactionID: result.TxID,
		InscriptionID: result.InscriptionID,
		Satoshi:       satoshi,
		CommitTxID:    result.CommitTxID,
		RevealTxID:    result.RevealTxID,
		FeeRate:       feeRate,
	}); err != nil {
		return err
	}
	a.SetLayer(identity.LayerBtco)

	credential, err := e.issueCredential(ctx, models.Credential{
		Type:      models.CredentialResourceMigration,
		Subject:   a.PrimaryIdentifier,
		Issuer:    a.PrimaryIdentifier,
		IssuedAt:  now,
		FromLayer: string(fromLayer),
		ToLayer:   string(identity.LayerBtco),
		TxID:      result.TxID,
	})
	if err != nil {
		return err
	}
	a.AddCredential(credential)

	e.bus.Emit(events.CredentialIssued, events.CredentialIssuedPayload{
		PrimaryIdentifier: a.PrimaryIdentifier, CredentialType: string(credential.Type),
	})
	e.bus.Emit(events.AssetMigrated, events.AssetMigratedPayload{
		PrimaryIdentifier: a.PrimaryIdentifier,
		From:              string(fromLayer),
		To:                string(identity.LayerBtco),
		TransactionID:     result.TxID,
		InscriptionID:     result.InscriptionID,
		Satoshi:           satoshi,
	})
	return nil
}
