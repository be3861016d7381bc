package main

import (
	"context"
	"log"
	"os"

	"github.com/onirigin/originals-engine/internal/config"
	"github.com/onirigin/originals-engine/internal/events"
	"github.com/onirigin/originals-engine/internal/httpapi"
	"github.com/onirigin/originals-engine/internal/ledgerstore"
	"github.com/onirigin/originals-engine/internal/mockadapters"
	"github.com/onirigin/originals-engine/internal/orchestrator"
	"github.com/onirigin/originals-engine/pkg/models"
)

func main() {
	log.Println("Starting originals lifecycle engine...")

	// ─── Adapters ─────────────────────────────────────────────────────
	// Real storage, fee-oracle, ordinals-provider, and keystore
	// implementations are out of this library's scope (see spec); this
	// demo wires the in-memory mocks so the lifecycle can be exercised
	// end to end without external services.
	storage := mockadapters.NewStorage()
	keystore := mockadapters.NewKeyStore()
	issuer := mockadapters.CredentialIssuer{}
	provider := &mockadapters.OrdinalsProvider{}

	network := config.Network(getEnvOrDefault("NETWORK", string(config.Regtest)))
	cfg := config.EngineConfig{
		Network:          network,
		DefaultKeyType:   config.ES256K,
		StorageAdapter:   storage,
		OrdinalsProvider: provider,
		EnableLogging:    true,
	}

	bus := events.New()
	eng, err := orchestrator.New(cfg, keystore, issuer, bus)
	if err != nil {
		log.Fatalf("FATAL: invalid engine configuration: %v", err)
	}

	registry := httpapi.NewInMemoryRegistry()

	sink := events.NewWebSocketSink()
	sink.Watch(bus, events.AssetCreated)
	sink.Watch(bus, events.AssetMigrated)
	sink.Watch(bus, events.AssetTransferred)
	sink.Watch(bus, events.ResourcePublished)
	sink.Watch(bus, events.CredentialIssued)
	go sink.Run()

	var store *ledgerstore.Store
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		store, err = ledgerstore.Connect(context.Background(), dbURL)
		if err != nil {
			log.Printf("Warning: ledger store unavailable, continuing without snapshot persistence: %v", err)
			store = nil
		} else {
			defer store.Close()
			if err := store.InitSchema(context.Background()); err != nil {
				log.Printf("Warning: ledger store schema init failed: %v", err)
			}
		}
	} else {
		log.Println("DATABASE_URL not set — ledger snapshots are in-memory only")
	}

	bus.On(events.AssetCreated, func(payload any) error {
		p, ok := payload.(events.AssetCreatedPayload)
		if !ok {
			return nil
		}
		log.Printf("asset:created %s", p.PrimaryIdentifier)
		return nil
	})

	demoAsset, err := eng.CreateAsset(context.Background(), []models.Resource{})
	if err != nil {
		log.Printf("Warning: demo asset creation failed: %v", err)
	} else {
		registry.Put(demoAsset)
		if store != nil {
			if err := store.Save(context.Background(), demoAsset.PrimaryIdentifier, demoAsset.Ledger); err != nil {
				log.Printf("Warning: failed to persist demo asset snapshot: %v", err)
			}
		}
	}

	r := httpapi.SetupRouter(registry, eng, store, sink)

	port := getEnvOrDefault("PORT", "5339")
	log.Printf("Engine running on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
