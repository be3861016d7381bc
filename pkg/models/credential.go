package models

import "time"

// CredentialType enumerates the claim shapes the engine issues.
type CredentialType string

const (
	CredentialResourceCreation  CredentialType = "resource-creation"
	CredentialResourceMigration CredentialType = "resource-migration"
	CredentialTransfer          CredentialType = "transfer"
)

// Credential is a signed assertion attached to an asset. Immutable once
// attached; the Proof bytes are opaque to the engine (issued/verified only
// through the CredentialIssuer/CredentialVerifier adapters).
type Credential struct {
	Type      CredentialType `json:"type"`
	Subject   string         `json:"subject"` // asset's primary identifier
	Issuer    string         `json:"issuer"`
	IssuedAt  time.Time      `json:"issuedAt"`
	FromLayer string         `json:"fromLayer,omitempty"`
	ToLayer   string         `json:"toLayer,omitempty"`
	TxID      string         `json:"txId,omitempty"`
	Proof     []byte         `json:"proof,omitempty"`
}
