package orchestrator

import (
	"context"
	"time"

	"github.com/onirigin/originals-engine/internal/canonical"
	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/pkg/models"
)

// credentialPayload is the canonicalized shape signed at issuance and
// reconstructed at verification; it excludes Proof itself.
type credentialPayload struct {
	Type      models.CredentialType `json:"type"`
	Subject   string                `json:"subject"`
	Issuer    string                `json:"issuer"`
	IssuedAt  time.Time             `json:"issuedAt"`
	FromLayer string                `json:"fromLayer,omitempty"`
	ToLayer   string                `json:"toLayer,omitempty"`
	TxID      string                `json:"txId,omitempty"`
}

func toPayload(c models.Credential) credentialPayload {
	return credentialPayload{
		Type: c.Type, Subject: c.Subject, Issuer: c.Issuer, IssuedAt: c.IssuedAt,
		FromLayer: c.FromLayer, ToLayer: c.ToLayer, TxID: c.TxID,
	}
}

// canonicalCredentialPayload reconstructs the exact bytes issueCredential
// signed, so verification can check the proof against the same payload.
func canonicalCredentialPayload(c models.Credential) ([]byte, error) {
	return canonical.Encode(toPayload(c))
}

// issueCredential canonicalizes the credential's claim fields, signs them
// via the configured CredentialIssuer, and returns the fully-populated
// credential ready to attach to the asset. When no issuer is configured the
// credential is attached unsigned (Proof is nil) — verification will then
// only be able to check structural validity, never cryptographic proof.
func (e *Engine) issueCredential(ctx context.Context, c models.Credential) (models.Credential, error) {
	payload, err := canonical.Encode(toPayload(c))
	if err != nil {
		return models.Credential{}, err
	}
	if e.issuer == nil {
		return c, nil
	}
	proof, err := e.issuer.Issue(ctx, c.Issuer, payload)
	if err != nil {
		return models.Credential{}, enginerr.Wrap(enginerr.NetworkError, "issuing credential", err)
	}
	c.Proof = proof
	return c, nil
}
