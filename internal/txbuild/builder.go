// Package txbuild constructs the two-phase commit/reveal Bitcoin
// transaction pair that carries inscription content, per spec §4.5.
package txbuild

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/internal/selector"
	"github.com/onirigin/originals-engine/pkg/models"
)

// CommitParams configures BuildCommit.
type CommitParams struct {
	Network        *chaincfg.Params
	Envelope       Envelope
	Candidates     []models.UTXO
	FeeRate        float64 // sats/vB, for both commit and reveal tx estimation
	MinCommitValue int64   // caller-supplied minimum for the commit output, 0 if none
	ChangeAddress  string
	SelectorPolicy selector.Policy // AllowLocked/ForbidInscriptionBearing/Avoid/Strategy carried through; Target/FeeRate are overwritten
}

// CommitArtifacts are the outputs of BuildCommit, sufficient to later build
// and finalize the reveal transaction without recomputing the taproot tree.
type CommitArtifacts struct {
	CommitAddress   string
	CommitTxPSBT    []byte // BIP-174 PSBT, base64-encoded
	CommitTx        *wire.MsgTx
	Selected        []models.UTXO
	CommitValue     int64
	CommitFee       int64
	RevealFee       int64
	InternalPrivKey *btcec.PrivateKey
	InternalPubKey  *btcec.PublicKey
	LeafScript      []byte
	ControlBlock    []byte
	network         *chaincfg.Params
}

func taprootPrefixFor(params *chaincfg.Params) string {
	switch params.Net {
	case chaincfg.MainNetParams.Net:
		return "bc1p"
	case chaincfg.RegressionNetParams.Net:
		return "bcrt1p"
	default:
		return "tb1p"
	}
}

func buildEnvelopeScript(internalXOnly []byte, env Envelope) ([]byte, error) {
	b := txscript.NewScriptBuilder()
	b.AddData(internalXOnly)
	b.AddOp(txscript.OP_CHECKSIG)
	b.AddOp(txscript.OP_FALSE)
	b.AddOp(txscript.OP_IF)
	b.AddData([]byte("ord"))
	encoded := env.Encode()
	for len(encoded) > 0 {
		chunk := encoded
		if len(chunk) > 520 {
			chunk = encoded[:520]
		}
		b.AddData(chunk)
		encoded = encoded[len(chunk):]
	}
	b.AddOp(txscript.OP_ENDIF)
	return b.Script()
}

// BuildCommit constructs the commit transaction: a UTXO-selector-funded
// output to a freshly derived taproot address whose script path commits to
// the inscription envelope, plus optional change.
func BuildCommit(p CommitParams) (*CommitArtifacts, error) {
	if len(p.Envelope.Content) == 0 {
		return nil, enginerr.New(enginerr.InvalidInput, "inscription content must not be empty")
	}
	if p.Envelope.ContentType == "" {
		return nil, enginerr.New(enginerr.InvalidInput, "inscription content type is required")
	}
	if p.ChangeAddress == "" {
		return nil, enginerr.New(enginerr.InvalidInput, "change address is required")
	}
	if p.FeeRate <= 0 {
		return nil, enginerr.Newf(enginerr.TooLowFee, "fee rate must be positive, got %v", p.FeeRate)
	}
	if p.Network == nil {
		return nil, enginerr.New(enginerr.InvalidInput, "network params are required")
	}

	internalPriv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, enginerr.Wrap(enginerr.InvalidInput, "generating reveal internal key", err)
	}
	internalPub := internalPriv.PubKey()
	internalXOnly := schnorr.SerializePubKey(internalPub)

	leafScript, err := buildEnvelopeScript(internalXOnly, p.Envelope)
	if err != nil {
		return nil, enginerr.Wrap(enginerr.InvalidInput, "building inscription envelope script", err)
	}

	tapLeaf := txscript.NewBaseTapLeaf(leafScript)
	tree := txscript.AssembleTaprootScriptTree(tapLeaf)
	rootHash := tree.RootNode.TapHash()
	tapKey := txscript.ComputeTaprootOutputKey(internalPub, rootHash[:])

	controlBlock := txscript.ControlBlock{
		LeafVersion: txscript.BaseLeafVersion,
		InternalKey: internalPub,
	}
	if tapKey.SerializeCompressed()[0] == secp256k1PubKeyFormatCompressedOdd {
		controlBlock.OutputKeyYIsOdd = true
	}
	controlBlockBytes, err := controlBlock.ToBytes()
	if err != nil {
		return nil, enginerr.Wrap(enginerr.InvalidInput, "serializing control block", err)
	}

	commitAddr, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(tapKey), p.Network)
	if err != nil {
		return nil, enginerr.Wrap(enginerr.InvalidInput, "deriving commit taproot address", err)
	}
	commitScript, err := txscript.PayToAddrScript(commitAddr)
	if err != nil {
		return nil, enginerr.Wrap(enginerr.InvalidInput, "building commit output script", err)
	}

	revealOutputValue := p.MinCommitValue
	if revealOutputValue < selector.DustLimit {
		revealOutputValue = selector.DustLimit
	}
	revealFee := selector.EstimateFee(p.FeeRate, 1, 1, selector.FeeParams{})
	commitTargetValue := revealOutputValue + revealFee

	policy := p.SelectorPolicy
	policy.Target = commitTargetValue
	policy.FeeRate = p.FeeRate

	selResult, err := selector.Select(p.Candidates, policy)
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(2)
	for _, u := range selResult.Selected {
		hash, err := chainhash.NewHashFromStr(u.TxID)
		if err != nil {
			return nil, enginerr.Wrap(enginerr.InvalidInput, "invalid UTXO txid", err)
		}
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(hash, u.Vout), nil, nil))
	}
	tx.AddTxOut(wire.NewTxOut(commitTargetValue, commitScript))
	if selResult.HasChange {
		changeAddr, err := btcutil.DecodeAddress(p.ChangeAddress, p.Network)
		if err != nil {
			return nil, enginerr.Wrap(enginerr.InvalidInput, "invalid change address", err)
		}
		changeScript, err := txscript.PayToAddrScript(changeAddr)
		if err != nil {
			return nil, enginerr.Wrap(enginerr.InvalidInput, "building change output script", err)
		}
		tx.AddTxOut(wire.NewTxOut(selResult.ChangeValue, changeScript))
	}

	packet, err := psbt.NewFromUnsignedTx(tx)
	if err != nil {
		return nil, enginerr.Wrap(enginerr.InvalidInput, "building commit PSBT", err)
	}
	psbtBytes, err := packet.B64Encode()
	if err != nil {
		return nil, enginerr.Wrap(enginerr.InvalidInput, "serializing commit PSBT", err)
	}

	return &CommitArtifacts{
		CommitAddress:   commitAddr.EncodeAddress(),
		CommitTxPSBT:    []byte(psbtBytes),
		CommitTx:        tx,
		Selected:        selResult.Selected,
		CommitValue:     commitTargetValue,
		CommitFee:       selResult.Fee,
		RevealFee:       revealFee,
		InternalPrivKey: internalPriv,
		InternalPubKey:  internalPub,
		LeafScript:      leafScript,
		ControlBlock:    controlBlockBytes,
		network:         p.Network,
	}, nil
}

// secp256k1PubKeyFormatCompressedOdd mirrors
// secp256k1.PubKeyFormatCompressedOdd (0x03) without pulling in the
// standalone secp256k1 module solely for one constant; btcec re-exports the
// same compressed-key format byte values.
const secp256k1PubKeyFormatCompressedOdd = 0x03
