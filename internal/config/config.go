// Package config defines the engine's closed configuration surface: network,
// default key type, adapter handles and logging, validated at construction
// time rather than left to crash mid-operation.
package config

import (
	"io"
	"log"
	"os"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/onirigin/originals-engine/internal/adapters"
	"github.com/onirigin/originals-engine/internal/enginerr"
)

// Network is one of the four closed Bitcoin network values the engine
// understands.
type Network string

const (
	Mainnet  Network = "mainnet"
	Testnet  Network = "testnet"
	Regtest  Network = "regtest"
	Signet   Network = "signet"
)

// Params resolves the network to its btcsuite chain parameters.
func (n Network) Params() (*chaincfg.Params, error) {
	switch n {
	case Mainnet:
		return &chaincfg.MainNetParams, nil
	case Testnet:
		return &chaincfg.TestNet3Params, nil
	case Regtest:
		return &chaincfg.RegressionNetParams, nil
	case Signet:
		return &chaincfg.SigNetParams, nil
	default:
		return nil, enginerr.Newf(enginerr.InvalidInput, "unrecognized network %q", string(n))
	}
}

func (n Network) valid() bool {
	switch n {
	case Mainnet, Testnet, Regtest, Signet:
		return true
	default:
		return false
	}
}

// KeyType is one of the three closed signature-key families the engine can
// request from a KeyStore.
type KeyType string

const (
	ES256K  KeyType = "ES256K"
	Ed25519 KeyType = "Ed25519"
	ES256   KeyType = "ES256"
)

func (k KeyType) valid() bool {
	switch k {
	case ES256K, Ed25519, ES256:
		return true
	default:
		return false
	}
}

// TelemetrySink receives best-effort operational notifications. It is
// separate from the typed event bus (events.Bus) — telemetry is for
// logging/metrics fan-out, not for application-observable state.
type TelemetrySink interface {
	OnError(operation string, err error)
}

// EngineConfig is the engine's full construction-time configuration.
// Missing or out-of-domain Network/DefaultKeyType fail Validate immediately,
// per spec.
type EngineConfig struct {
	Network         Network
	DefaultKeyType  KeyType
	OrdinalsProvider adapters.OrdinalsProvider
	FeeOracle       adapters.FeeOracleAdapter
	StorageAdapter  adapters.StorageAdapter
	Telemetry       TelemetrySink
	EnableLogging   bool
}

// Validate enforces the closed enums for Network and DefaultKeyType.
// Adapter fields are intentionally optional here: operations that need a
// given adapter (e.g. inscribeOnBitcoin needs OrdinalsProvider) check for it
// themselves and fail with the operation-specific code (OrdProviderRequired)
// rather than forcing every caller to wire every adapter up front.
func (c EngineConfig) Validate() error {
	if !c.Network.valid() {
		return enginerr.Newf(enginerr.InvalidInput, "missing or unrecognized network %q", string(c.Network))
	}
	if !c.DefaultKeyType.valid() {
		return enginerr.Newf(enginerr.InvalidInput, "missing or unrecognized defaultKeyType %q", string(c.DefaultKeyType))
	}
	return nil
}

// NewLogger returns a *log.Logger for operational messages (adapter call
// failures, retries, degraded paths). When enabled is false it discards
// everything written to it rather than branching on a nil logger at every
// call site.
func (c EngineConfig) NewLogger(prefix string) *log.Logger {
	if !c.EnableLogging {
		return log.New(io.Discard, prefix, 0)
	}
	return log.New(os.Stderr, prefix, log.LstdFlags)
}
