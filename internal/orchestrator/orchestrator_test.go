package orchestrator

import (
	"context"
	"strings"
	"testing"

	"github.com/onirigin/originals-engine/internal/adapters"
	"github.com/onirigin/originals-engine/internal/config"
	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/internal/events"
	"github.com/onirigin/originals-engine/internal/identity"
	"github.com/onirigin/originals-engine/internal/mockadapters"
	"github.com/onirigin/originals-engine/internal/resource"
	"github.com/onirigin/originals-engine/internal/statemachine"
	"github.com/onirigin/originals-engine/pkg/models"
)

func resourceWithContent(id string, content []byte, contentType string) models.Resource {
	return models.Resource{ID: id, Type: "generic", ContentType: contentType, Hash: resource.ComputeDigest(content), Content: content}
}

func newTestEngine(t *testing.T, storage adapters.StorageAdapter, oracle adapters.FeeOracleAdapter, provider adapters.OrdinalsProvider) (*Engine, *events.Bus) {
	t.Helper()
	bus := events.New()
	cfg := config.EngineConfig{
		Network:          config.Regtest,
		DefaultKeyType:   config.ES256K,
		StorageAdapter:   storage,
		FeeOracle:        oracle,
		OrdinalsProvider: provider,
	}
	eng, err := New(cfg, mockadapters.NewKeyStore(), mockadapters.CredentialIssuer{}, bus)
	if err != nil {
		t.Fatalf("unexpected error constructing engine: %v", err)
	}
	return eng, bus
}

func TestFullLifecycle_PeerWebvhBtcoTransfer(t *testing.T) {
	storage := mockadapters.NewStorage()
	oracle := &mockadapters.FeeOracle{Rate: 7}
	provider := &mockadapters.OrdinalsProvider{
		CreateInscriptionFn: func(ctx context.Context, req adapters.InscriptionRequest) (adapters.InscriptionResult, error) {
			return adapters.InscriptionResult{
				InscriptionID: "insc1", TxID: "revealtx1", CommitTxID: "committx1",
				RevealTxID: "revealtx1", Satoshi: 123456789,
			}, nil
		},
		TransferFn: func(ctx context.Context, id, toAddress string, feeRate float64) (adapters.TransferResult, error) {
			return adapters.TransferResult{TxID: "transfertx1"}, nil
		},
	}
	eng, bus := newTestEngine(t, storage, oracle, provider)

	var migratedEvents, publishedEvents, transferredEvents int
	bus.On(events.AssetMigrated, func(any) error { migratedEvents++; return nil })
	bus.On(events.ResourcePublished, func(any) error { publishedEvents++; return nil })
	bus.On(events.AssetTransferred, func(any) error { transferredEvents++; return nil })

	ctx := context.Background()
	a, err := eng.CreateAsset(ctx, []models.Resource{
		resourceWithContent("r1", []byte("mock-image-data"), "image/png"),
		resourceWithContent("r2", []byte("Hello"), "text/plain"),
	})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if string(a.CurrentLayer) != "peer" {
		t.Fatalf("expected peer layer, got %s", a.CurrentLayer)
	}

	if err := eng.PublishToWeb(ctx, a, "example.com"); err != nil {
		t.Fatalf("PublishToWeb: %v", err)
	}
	if publishedEvents != 2 {
		t.Errorf("expected 2 resource:published events, got %d", publishedEvents)
	}
	if storage.Count() != 2 {
		t.Errorf("expected 2 stored objects, got %d", storage.Count())
	}
	if !strings.HasPrefix(a.Bindings["did:webvh"], "did:webvh:example.com:") {
		t.Errorf("expected did:webvh binding for example.com, got %q", a.Bindings["did:webvh"])
	}

	if err := eng.InscribeOnBitcoin(ctx, a, 5); err != nil {
		t.Fatalf("InscribeOnBitcoin: %v", err)
	}
	last := a.Ledger.Migrations[len(a.Ledger.Migrations)-1]
	if last.FeeRate != 7 {
		t.Errorf("expected oracle-resolved fee rate 7, got %v", last.FeeRate)
	}
	if string(a.CurrentLayer) != "btco" {
		t.Fatalf("expected btco layer, got %s", a.CurrentLayer)
	}

	if err := eng.TransferOwnership(ctx, a, "bcrt1qrecipient123"); err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}
	if len(a.Ledger.Transfers) != 1 {
		t.Fatalf("expected 1 transfer entry, got %d", len(a.Ledger.Transfers))
	}
	if a.Ledger.Transfers[0].ToAddress != "bcrt1qrecipient123" {
		t.Errorf("unexpected transfer recipient: %+v", a.Ledger.Transfers[0])
	}
	if a.Ledger.LastTxid != "transfertx1" {
		t.Errorf("expected lastTxid transfertx1, got %q", a.Ledger.LastTxid)
	}
	if migratedEvents != 2 {
		t.Errorf("expected 2 asset:migrated events (webvh, btco), got %d", migratedEvents)
	}
	if transferredEvents != 1 {
		t.Errorf("expected 1 asset:transferred event, got %d", transferredEvents)
	}
}

func TestDirectPeerToBtco_SkippingWebvh(t *testing.T) {
	storage := mockadapters.NewStorage()
	provider := &mockadapters.OrdinalsProvider{
		CreateInscriptionFn: func(ctx context.Context, req adapters.InscriptionRequest) (adapters.InscriptionResult, error) {
			return adapters.InscriptionResult{InscriptionID: "insc1", TxID: "revealtx1", Satoshi: 42}, nil
		},
		TransferFn: func(ctx context.Context, id, toAddress string, feeRate float64) (adapters.TransferResult, error) {
			return adapters.TransferResult{TxID: "tx2"}, nil
		},
	}
	eng, _ := newTestEngine(t, storage, nil, provider)

	ctx := context.Background()
	a, err := eng.CreateAsset(ctx, nil)
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if err := eng.InscribeOnBitcoin(ctx, a, 3); err != nil {
		t.Fatalf("InscribeOnBitcoin: %v", err)
	}
	if len(a.Ledger.Migrations) != 1 {
		t.Fatalf("expected exactly 1 migration entry, got %d", len(a.Ledger.Migrations))
	}
	m := a.Ledger.Migrations[0]
	if m.FromLayer != "peer" || m.ToLayer != "btco" {
		t.Errorf("expected peer->btco, got %s->%s", m.FromLayer, m.ToLayer)
	}
	if err := eng.TransferOwnership(ctx, a, "1RecipientAddress"); err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}
}

func TestInvalidTransition_WebvhToPeer(t *testing.T) {
	storage := mockadapters.NewStorage()
	eng, bus := newTestEngine(t, storage, nil, nil)
	migratedEvents := 0
	bus.On(events.AssetMigrated, func(any) error { migratedEvents++; return nil })

	ctx := context.Background()
	a, err := eng.CreateAsset(ctx, nil)
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if err := eng.PublishToWeb(ctx, a, "example.com"); err != nil {
		t.Fatalf("PublishToWeb: %v", err)
	}
	ledgerLenBefore := len(a.Ledger.Migrations)

	// webvh is terminal w.r.t. returning to peer: no orchestrator
	// operation can move an asset backward, and the state machine itself
	// rejects the edge directly.
	if err := statemachine.Validate(identity.LayerWebvh, identity.LayerPeer); !enginerr.Is(err, enginerr.InvalidTransition) {
		t.Fatalf("expected InvalidTransition for webvh->peer, got %v", err)
	}
	if len(a.Ledger.Migrations) != ledgerLenBefore {
		t.Errorf("expected no ledger append from a rejected transition")
	}
	if migratedEvents != 1 {
		t.Errorf("expected exactly the 1 migrated event from the earlier successful publish, got %d", migratedEvents)
	}
}

func TestInscriptionSafety_AllInputsCarryInscriptionNeverRetried(t *testing.T) {
	if enginerr.AllInputsCarryInscription.Retryable() {
		t.Fatalf("AllInputsCarryInscription must never be retryable")
	}
}

func TestFeePrecedence_OracleWinsOverProviderAndHint(t *testing.T) {
	storage := mockadapters.NewStorage()
	oracle := &mockadapters.FeeOracle{Rate: 9}
	provider := &mockadapters.OrdinalsProvider{
		EstimateFeeFn: func(ctx context.Context, blocks int) (float64, error) { return 5, nil },
		CreateInscriptionFn: func(ctx context.Context, req adapters.InscriptionRequest) (adapters.InscriptionResult, error) {
			return adapters.InscriptionResult{InscriptionID: "i1", TxID: "t1", Satoshi: 1}, nil
		},
	}
	eng, _ := newTestEngine(t, storage, oracle, provider)

	ctx := context.Background()
	a, err := eng.CreateAsset(ctx, nil)
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if err := eng.InscribeOnBitcoin(ctx, a, 2); err != nil {
		t.Fatalf("InscribeOnBitcoin: %v", err)
	}
	got := a.Ledger.Migrations[0].FeeRate
	if got != 9 {
		t.Errorf("expected resolved fee 9 (oracle precedence), got %v", got)
	}
}

func TestVerify_ValidAssetReturnsTrueIdempotently(t *testing.T) {
	storage := mockadapters.NewStorage()
	eng, _ := newTestEngine(t, storage, nil, nil)
	ctx := context.Background()
	a, err := eng.CreateAsset(ctx, []models.Resource{resourceWithContent("r1", []byte("data"), "text/plain")})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	first := eng.Verify(ctx, a, nil, nil)
	second := eng.Verify(ctx, a, nil, nil)
	if !first || !second {
		t.Fatalf("expected verify to return true both times, got %v then %v", first, second)
	}
}

func TestTransferOwnership_RejectsWrongLayer(t *testing.T) {
	storage := mockadapters.NewStorage()
	eng, _ := newTestEngine(t, storage, nil, nil)
	ctx := context.Background()
	a, err := eng.CreateAsset(ctx, nil)
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if err := eng.TransferOwnership(ctx, a, "bc1qrecipient"); !enginerr.Is(err, enginerr.AssetNotOnBitcoin) {
		t.Fatalf("expected AssetNotOnBitcoin, got %v", err)
	}
}
