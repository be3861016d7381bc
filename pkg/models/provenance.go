package models

import "time"

// MigrationEntry records a layer transition in the provenance ledger.
type MigrationEntry struct {
	FromLayer     string    `json:"fromLayer"`
	ToLayer       string    `json:"toLayer"`
	Timestamp     time.Time `json:"timestamp"`
	TransactionID string    `json:"transactionId,omitempty"`
	InscriptionID string    `json:"inscriptionId,omitempty"`
	Satoshi       int64     `json:"satoshi,omitempty"`
	CommitTxID    string    `json:"commitTxId,omitempty"`
	RevealTxID    string    `json:"revealTxId,omitempty"`
	FeeRate       float64   `json:"feeRate,omitempty"`
}

// TransferEntry records a transfer of a Bitcoin-inscribed asset.
type TransferEntry struct {
	FromAddress   string    `json:"fromAddress"`
	ToAddress     string    `json:"toAddress"`
	Timestamp     time.Time `json:"timestamp"`
	TransactionID string    `json:"transactionId"`
}
