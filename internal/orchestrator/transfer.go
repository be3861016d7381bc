package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/onirigin/originals-engine/internal/asset"
	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/internal/events"
	"github.com/onirigin/originals-engine/internal/identity"
	"github.com/onirigin/originals-engine/pkg/models"
)

const maxAddressLen = 90

var recognizedAddressPrefixes = []string{"bc1", "tb1", "bcrt1", "1", "3", "2", "m", "n"}

func validAddress(addr string) bool {
	if addr == "" || len(addr) > maxAddressLen {
		return false
	}
	for _, p := range recognizedAddressPrefixes {
		if strings.HasPrefix(addr, p) {
			return true
		}
	}
	return false
}

// TransferOwnership transfers a Bitcoin-inscribed asset to toAddress. See
// spec §4.8.
func (e *Engine) TransferOwnership(ctx context.Context, a *asset.Asset, toAddress string) error {
	if a.CurrentLayer != identity.LayerBtco {
		return enginerr.New(enginerr.AssetNotOnBitcoin, "transfer requires the asset to be on the btco layer")
	}
	if !validAddress(toAddress) {
		return enginerr.Newf(enginerr.InvalidInput, "invalid recipient address %q", toAddress)
	}
	if e.cfg.OrdinalsProvider == nil {
		return enginerr.New(enginerr.OrdProviderRequired, "no ordinals provider configured")
	}

	inscriptionID := lastInscriptionID(a)
	if inscriptionID == "" {
		return enginerr.New(enginerr.SatoshiRequired, "asset has no recorded inscription to transfer")
	}

	feeRate := e.resolveFeeRate(ctx, 0)

	result, err := e.cfg.OrdinalsProvider.TransferInscription(ctx, inscriptionID, toAddress, feeRate)
	if err != nil {
		return err
	}
	if result.TxID == "" {
		return enginerr.New(enginerr.OrdProviderInvalidResponse, "ordinals provider returned no transaction id")
	}

	entry := models.TransferEntry{
		FromAddress:   a.CurrentAddress,
		ToAddress:     toAddress,
		Timestamp:     time.Now(),
		TransactionID: result.TxID,
	}
	if err := a.Ledger.AppendTransfer(entry); err != nil {
		return err
	}
	a.CurrentAddress = toAddress

	e.bus.Emit(events.AssetTransferred, events.AssetTransferredPayload{
		PrimaryIdentifier: a.PrimaryIdentifier,
		From:              entry.FromAddress,
		To:                toAddress,
		TransactionID:     result.TxID,
	})
	return nil
}

// lastInscriptionID returns the inscription id recorded by the most recent
// btco migration, or "" if the asset has never been inscribed.
func lastInscriptionID(a *asset.Asset) string {
	for i := len(a.Ledger.Migrations) - 1; i >= 0; i-- {
		if m := a.Ledger.Migrations[i]; m.ToLayer == string(identity.LayerBtco) {
			return m.InscriptionID
		}
	}
	return ""
}
