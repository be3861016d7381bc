package models

import "strconv"

// UTXO is an unspent output considered by the selector.
type UTXO struct {
	TxID               string   `json:"txid"`
	Vout               uint32   `json:"vout"`
	Value              int64    `json:"value"` // satoshis
	Script             []byte   `json:"script,omitempty"`
	Address            string   `json:"address,omitempty"`
	Locked             bool     `json:"locked,omitempty"`
	CarriesInscription bool     `json:"carriesInscription,omitempty"`
	InscriptionIDs     []string `json:"inscriptionIds,omitempty"`
}

// Outpoint returns the "txid:vout" identifier used by avoid-lists.
func (u UTXO) Outpoint() string {
	return u.TxID + ":" + strconv.FormatUint(uint64(u.Vout), 10)
}
