// Package identity builds and parses the three layered identifier forms
// from spec §3/§6: did:peer, did:webvh, did:btco.
package identity

import (
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/onirigin/originals-engine/internal/enginerr"
)

// Layer is one of the three identity layers the state machine governs.
type Layer string

const (
	LayerPeer  Layer = "peer"
	LayerWebvh Layer = "webvh"
	LayerBtco  Layer = "btco"
)

const (
	prefixPeer  = "did:peer:"
	prefixWebvh = "did:webvh:"
	prefixBtco  = "did:btco:"
)

// NewPeerIdentifier derives a did:peer identifier from public key material.
func NewPeerIdentifier(publicKey []byte) string {
	return prefixPeer + base58.Encode(publicKey)
}

// NewWebvhIdentifier builds a did:webvh identifier bound to domain and slug.
func NewWebvhIdentifier(domain, slug string) string {
	return prefixWebvh + domain + ":" + slug
}

// BtcoNetworkTag qualifies a did:btco identifier for non-mainnet networks,
// per spec §6 ("did:btco:test:<sat>", "did:btco:sig:<sat>"). Mainnet and
// regtest carry no tag (regtest inscriptions are not a production identity
// layer, but the engine does not distinguish it from mainnet in the did
// string — only the address prefix differs, see internal/txbuild).
func BtcoNetworkTag(network string) string {
	switch network {
	case "testnet":
		return "test:"
	case "signet":
		return "sig:"
	default:
		return ""
	}
}

// NewBtcoIdentifier builds a did:btco identifier from a satoshi number and
// an optional network tag (from BtcoNetworkTag).
func NewBtcoIdentifier(satoshi int64, networkTag string) string {
	return prefixBtco + networkTag + strconv.FormatInt(satoshi, 10)
}

// LayerOf returns the layer implied by an identifier's prefix, failing if
// the prefix is not one of the three recognized forms.
func LayerOf(id string) (Layer, error) {
	switch {
	case strings.HasPrefix(id, prefixPeer):
		return LayerPeer, nil
	case strings.HasPrefix(id, prefixWebvh):
		return LayerWebvh, nil
	case strings.HasPrefix(id, prefixBtco):
		return LayerBtco, nil
	default:
		return "", enginerr.Newf(enginerr.InvalidInput, "unrecognized identifier prefix in %q", id)
	}
}

// SatoshiOf extracts the satoshi number from a did:btco identifier.
func SatoshiOf(id string) (int64, error) {
	if !strings.HasPrefix(id, prefixBtco) {
		return 0, enginerr.Newf(enginerr.InvalidInput, "%q is not a did:btco identifier", id)
	}
	rest := strings.TrimPrefix(id, prefixBtco)
	rest = strings.TrimPrefix(rest, "test:")
	rest = strings.TrimPrefix(rest, "sig:")
	sat, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, enginerr.Wrap(enginerr.InvalidInput, "malformed satoshi number in did:btco identifier", err)
	}
	return sat, nil
}
