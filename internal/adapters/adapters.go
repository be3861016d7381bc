// Package adapters defines the narrow boundary interfaces the engine talks
// to. Implementations (a real Bitcoin node, an ordinals indexer, an object
// store, a fee oracle) are out of scope for this module; internal/mockadapters
// provides in-memory test doubles only.
package adapters

import "context"

// StorageAdapter persists resource bytes for the web-verifiable layer. The
// engine uses "<domain>/.well-known/webvh/<asset-slug>/<resource-id>" as the
// object key shape; adapters split on the first '/' to separate domain from
// path.
type StorageAdapter interface {
	Put(ctx context.Context, objectKey string, data []byte, contentType string) (url string, err error)
	Get(ctx context.Context, objectKey string) (data []byte, contentType string, found bool, err error)
	Delete(ctx context.Context, objectKey string) (bool, error)
}

// FeeOracleAdapter estimates a fee rate in sats/vB for a confirmation
// target measured in blocks.
type FeeOracleAdapter interface {
	EstimateFeeRate(ctx context.Context, targetBlocks int) (satsPerVByte float64, err error)
}

// InscriptionRequest is the payload handed to OrdinalsProvider.CreateInscription.
type InscriptionRequest struct {
	Data        []byte
	ContentType string
	FeeRate     float64 // 0 means "provider default"
}

// InscriptionResult is what a provider reports back for a created inscription.
// Fields are optional per spec §6; zero values mean "not reported".
type InscriptionResult struct {
	InscriptionID string
	RevealTxID    string
	CommitTxID    string
	Satoshi       int64
	TxID          string
	Vout          uint32
	BlockHeight   int64
	Content       []byte
	ContentType   string
	FeeRate       float64
}

// InscriptionInfo is what GetInscriptionById returns.
type InscriptionInfo struct {
	InscriptionID string
	Content       []byte
	ContentType   string
	TxID          string
	Vout          uint32
	Satoshi       int64
	BlockHeight   int64
}

// TransferResult is what TransferInscription reports back.
type TransferResult struct {
	TxID          string
	Vin           int
	Vout          int
	Fee           int64
	BlockHeight   int64
	Confirmations int
	Satoshi       int64
}

// TransactionStatus is what GetTransactionStatus reports back.
type TransactionStatus struct {
	Confirmed     bool
	BlockHeight   int64
	Confirmations int
}

// OrdinalsProvider is the engine's window onto an ordinals-aware indexer /
// Bitcoin node combination.
type OrdinalsProvider interface {
	CreateInscription(ctx context.Context, req InscriptionRequest) (InscriptionResult, error)
	GetInscriptionById(ctx context.Context, id string) (InscriptionInfo, bool, error)
	GetInscriptionsBySatoshi(ctx context.Context, satoshi int64) ([]string, error)
	TransferInscription(ctx context.Context, id string, toAddress string, feeRate float64) (TransferResult, error)
	BroadcastTransaction(ctx context.Context, rawTx []byte) (txid string, err error)
	GetTransactionStatus(ctx context.Context, txid string) (TransactionStatus, error)
	EstimateFee(ctx context.Context, blocks int) (satsPerVByte float64, err error)
}

// KeyMaterial is the result of generating a new signing key.
type KeyMaterial struct {
	ID        string
	PublicKey []byte
	// PrivateKey is opaque to the engine; adapters may return nil if the
	// key never leaves the keystore.
	PrivateKey []byte
}

// KeyStore is the engine's narrow signer boundary: generate, sign, verify.
type KeyStore interface {
	GenerateKey(ctx context.Context, keyType string) (KeyMaterial, error)
	Sign(ctx context.Context, keyID string, data []byte) (signature []byte, err error)
	Verify(ctx context.Context, publicKey []byte, data []byte, signature []byte) (bool, error)
}

// CredentialIssuer issues a signed claim over a canonical JSON payload.
type CredentialIssuer interface {
	Issue(ctx context.Context, issuer string, payload []byte) (proof []byte, err error)
}

// CredentialVerifier verifies a previously issued credential proof.
type CredentialVerifier interface {
	Verify(ctx context.Context, issuer string, payload []byte, proof []byte) (bool, error)
}
