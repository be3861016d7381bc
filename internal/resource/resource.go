// Package resource implements the content-addressed resource model from
// spec §4.1: digest computation and verification.
package resource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/pkg/models"
)

// digestHexLen is the fixed hex width of the chosen hash family (SHA-256).
const digestHexLen = sha256.Size * 2

// ComputeDigest returns the lowercase-hex SHA-256 digest of content.
func ComputeDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Fetcher retrieves the bytes at a resource's URL. Fetcher errors during
// verification never fail the asset — they downgrade to structural-only
// validation.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

func validHexDigest(s string) bool {
	if len(s) != digestHexLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// Validate performs the structural checks common to every resource
// regardless of content availability: non-empty id/type/contentType and a
// well-formed digest.
func Validate(r models.Resource) error {
	if r.ID == "" {
		return enginerr.New(enginerr.InvalidInput, "resource id is required")
	}
	if r.Type == "" {
		return enginerr.New(enginerr.InvalidInput, "resource type is required")
	}
	if r.ContentType == "" {
		return enginerr.New(enginerr.InvalidInput, "resource contentType is required")
	}
	if !validHexDigest(r.Hash) {
		return enginerr.Newf(enginerr.InvalidInput, "resource %s has a malformed digest", r.ID)
	}
	return nil
}

// Verify implements spec §4.1's verifyResource: true if the declared digest
// is well-formed and, whenever content can be materialized (inline, or via
// fetcher against the URL), it matches the declared digest. With neither
// inline content nor a usable fetcher, the resource is "unverifiable but
// valid" and Verify returns true.
func Verify(ctx context.Context, r models.Resource, fetcher Fetcher) bool {
	if err := Validate(r); err != nil {
		return false
	}

	if r.HasContent() {
		return ComputeDigest(r.Content) == r.Hash
	}

	if r.URL != "" && fetcher != nil {
		data, err := fetcher.Fetch(ctx, r.URL)
		if err != nil {
			// Fetcher failure downgrades to structural-only; already valid.
			return true
		}
		return ComputeDigest(data) == r.Hash
	}

	return true
}
