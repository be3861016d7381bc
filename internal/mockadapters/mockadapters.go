// Package mockadapters provides in-memory adapter implementations used by
// tests elsewhere in the module and by the cmd/engine demo; it is not part
// of the engine's production surface.
package mockadapters

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/onirigin/originals-engine/internal/adapters"
	"github.com/onirigin/originals-engine/internal/enginerr"
)

// Storage is an in-memory StorageAdapter keyed by object key.
type Storage struct {
	mu      sync.Mutex
	objects map[string]storedObject
	BaseURL string // defaults to "https://storage.test"
}

type storedObject struct {
	data        []byte
	contentType string
}

func NewStorage() *Storage {
	return &Storage{objects: make(map[string]storedObject), BaseURL: "https://storage.test"}
}

func (s *Storage) Put(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = storedObject{data: append([]byte(nil), data...), contentType: contentType}
	return fmt.Sprintf("%s/%s", s.BaseURL, objectKey), nil
}

func (s *Storage) Get(ctx context.Context, objectKey string) ([]byte, string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[objectKey]
	if !ok {
		return nil, "", false, nil
	}
	return obj.data, obj.contentType, true, nil
}

func (s *Storage) Delete(ctx context.Context, objectKey string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[objectKey]; !ok {
		return false, nil
	}
	delete(s.objects, objectKey)
	return true, nil
}

// Count reports how many objects this storage currently holds across all
// domains; HasKeyUnder checks for a key under one domain prefix.
func (s *Storage) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *Storage) HasKeyUnder(domain string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.objects {
		if strings.HasPrefix(k, domain+"/") {
			return true
		}
	}
	return false
}

var _ adapters.StorageAdapter = (*Storage)(nil)

// FeeOracle is a FeeOracleAdapter returning a fixed rate, or an error when
// Err is set.
type FeeOracle struct {
	Rate float64
	Err  error
}

func (f *FeeOracle) EstimateFeeRate(ctx context.Context, targetBlocks int) (float64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return f.Rate, nil
}

var _ adapters.FeeOracleAdapter = (*FeeOracle)(nil)

// OrdinalsProvider is a scriptable OrdinalsProvider test double.
type OrdinalsProvider struct {
	mu sync.Mutex

	CreateInscriptionFn  func(ctx context.Context, req adapters.InscriptionRequest) (adapters.InscriptionResult, error)
	GetInscriptionByIDFn func(ctx context.Context, id string) (adapters.InscriptionInfo, bool, error)
	SatoshiLookupFn      func(ctx context.Context, satoshi int64) ([]string, error)
	TransferFn           func(ctx context.Context, id, toAddress string, feeRate float64) (adapters.TransferResult, error)
	BroadcastFn          func(ctx context.Context, rawTx []byte) (string, error)
	StatusFn             func(ctx context.Context, txid string) (adapters.TransactionStatus, error)
	EstimateFeeFn        func(ctx context.Context, blocks int) (float64, error)

	Calls []string
}

func (p *OrdinalsProvider) record(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, name)
}

func (p *OrdinalsProvider) CreateInscription(ctx context.Context, req adapters.InscriptionRequest) (adapters.InscriptionResult, error) {
	p.record("CreateInscription")
	if p.CreateInscriptionFn != nil {
		return p.CreateInscriptionFn(ctx, req)
	}
	return adapters.InscriptionResult{}, enginerr.New(enginerr.OrdProviderUnsupported, "CreateInscription not configured")
}

func (p *OrdinalsProvider) GetInscriptionById(ctx context.Context, id string) (adapters.InscriptionInfo, bool, error) {
	p.record("GetInscriptionById")
	if p.GetInscriptionByIDFn != nil {
		return p.GetInscriptionByIDFn(ctx, id)
	}
	return adapters.InscriptionInfo{}, false, nil
}

func (p *OrdinalsProvider) GetInscriptionsBySatoshi(ctx context.Context, satoshi int64) ([]string, error) {
	p.record("GetInscriptionsBySatoshi")
	if p.SatoshiLookupFn != nil {
		return p.SatoshiLookupFn(ctx, satoshi)
	}
	return nil, nil
}

func (p *OrdinalsProvider) TransferInscription(ctx context.Context, id string, toAddress string, feeRate float64) (adapters.TransferResult, error) {
	p.record("TransferInscription")
	if p.TransferFn != nil {
		return p.TransferFn(ctx, id, toAddress, feeRate)
	}
	return adapters.TransferResult{}, enginerr.New(enginerr.OrdProviderUnsupported, "TransferInscription not configured")
}

func (p *OrdinalsProvider) BroadcastTransaction(ctx context.Context, rawTx []byte) (string, error) {
	p.record("BroadcastTransaction")
	if p.BroadcastFn != nil {
		return p.BroadcastFn(ctx, rawTx)
	}
	return "", enginerr.New(enginerr.OrdProviderUnsupported, "BroadcastTransaction not configured")
}

func (p *OrdinalsProvider) GetTransactionStatus(ctx context.Context, txid string) (adapters.TransactionStatus, error) {
	p.record("GetTransactionStatus")
	if p.StatusFn != nil {
		return p.StatusFn(ctx, txid)
	}
	return adapters.TransactionStatus{}, nil
}

func (p *OrdinalsProvider) EstimateFee(ctx context.Context, blocks int) (float64, error) {
	p.record("EstimateFee")
	if p.EstimateFeeFn != nil {
		return p.EstimateFeeFn(ctx, blocks)
	}
	return 0, nil
}

var _ adapters.OrdinalsProvider = (*OrdinalsProvider)(nil)

// KeyStore is an in-memory KeyStore. Keys are not cryptographically real;
// Sign/Verify perform a trivial reversible transform sufficient to exercise
// the engine's key-management call sequence.
type KeyStore struct {
	mu   sync.Mutex
	keys map[string]adapters.KeyMaterial
	next int
}

func NewKeyStore() *KeyStore {
	return &KeyStore{keys: make(map[string]adapters.KeyMaterial)}
}

func (k *KeyStore) GenerateKey(ctx context.Context, keyType string) (adapters.KeyMaterial, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.next++
	id := fmt.Sprintf("key-%d", k.next)
	material := adapters.KeyMaterial{
		ID:        id,
		PublicKey: []byte(fmt.Sprintf("pub:%s:%s", keyType, id)),
	}
	k.keys[id] = material
	return material, nil
}

func (k *KeyStore) Sign(ctx context.Context, keyID string, data []byte) ([]byte, error) {
	k.mu.Lock()
	_, ok := k.keys[keyID]
	k.mu.Unlock()
	if !ok {
		return nil, enginerr.Newf(enginerr.InvalidInput, "unknown key id %q", keyID)
	}
	return append([]byte("sig:"), data...), nil
}

func (k *KeyStore) Verify(ctx context.Context, publicKey []byte, data []byte, signature []byte) (bool, error) {
	expected := append([]byte("sig:"), data...)
	if len(signature) != len(expected) {
		return false, nil
	}
	for i := range expected {
		if signature[i] != expected[i] {
			return false, nil
		}
	}
	return true, nil
}

var _ adapters.KeyStore = (*KeyStore)(nil)

// CredentialIssuer issues a trivial deterministic proof over the payload.
type CredentialIssuer struct{}

func (CredentialIssuer) Issue(ctx context.Context, issuer string, payload []byte) ([]byte, error) {
	return append([]byte("proof:"+issuer+":"), payload...), nil
}

var _ adapters.CredentialIssuer = CredentialIssuer{}

// CredentialVerifier verifies proofs issued by CredentialIssuer.
type CredentialVerifier struct{}

func (CredentialVerifier) Verify(ctx context.Context, issuer string, payload []byte, proof []byte) (bool, error) {
	expected := append([]byte("proof:"+issuer+":"), payload...)
	if len(proof) != len(expected) {
		return false, nil
	}
	for i := range expected {
		if proof[i] != expected[i] {
			return false, nil
		}
	}
	return true, nil
}

var _ adapters.CredentialVerifier = CredentialVerifier{}
