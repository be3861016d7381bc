package txbuild

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/onirigin/originals-engine/internal/enginerr"
)

// RevealParams configures the reveal transaction spending the commit
// output produced by BuildCommit.
type RevealParams struct {
	Commit         *CommitArtifacts
	CommitOutIndex uint32
	DestAddrScript []byte // where the reveal output (carrying the inscribed satoshi) goes
}

// PendingReveal is an unsigned reveal transaction together with the
// sighash to sign and the leaf script and control block FinalizeReveal
// needs to build the witness.
type PendingReveal struct {
	Tx       *wire.MsgTx
	SigHash  []byte
	leaf     txscript.TapLeaf
	control  []byte
}

// RevealSigHash builds the unsigned reveal transaction and returns the
// BIP342 tapscript sighash that an external signer must sign over the
// commit output's script-path spend. The transaction is cached on the
// returned *PendingReveal so FinalizeReveal need not rebuild it.
func RevealSigHash(p RevealParams) (*PendingReveal, error) {
	if p.Commit == nil {
		return nil, enginerr.New(enginerr.InvalidInput, "commit artifacts are required")
	}
	if len(p.DestAddrScript) == 0 {
		return nil, enginerr.New(enginerr.InvalidInput, "destination script is required")
	}

	commitHash := p.Commit.CommitTx.TxHash()
	tx := wire.NewMsgTx(2)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&commitHash, p.CommitOutIndex), nil, nil))
	tx.AddTxOut(wire.NewTxOut(p.Commit.CommitValue-p.Commit.RevealFee, p.DestAddrScript))

	prevOut := p.Commit.CommitTx.TxOut[p.CommitOutIndex]
	fetcher := txscript.NewCannedPrevOutputFetcher(prevOut.PkScript, prevOut.Value)
	sigHashes := txscript.NewTxSigHashes(tx, fetcher)

	leaf := txscript.NewBaseTapLeaf(p.Commit.LeafScript)
	sigHash, err := txscript.CalcTapscriptSignaturehash(
		sigHashes, txscript.SigHashDefault, tx, 0, fetcher, leaf)
	if err != nil {
		return nil, enginerr.Wrap(enginerr.InvalidInput, "computing reveal tapscript sighash", err)
	}

	return &PendingReveal{
		Tx:      tx,
		SigHash: sigHash,
		leaf:    leaf,
		control: p.Commit.ControlBlock,
	}, nil
}

// FinalizeReveal attaches the externally-produced schnorr signature as the
// reveal input's witness, alongside the envelope script and control block,
// completing the script-path spend.
func (pr *PendingReveal) FinalizeReveal(signature []byte) (*wire.MsgTx, error) {
	if len(signature) != 64 {
		return nil, enginerr.Newf(enginerr.InvalidInput,
			"schnorr signature must be 64 bytes, got %d", len(signature))
	}
	pr.Tx.TxIn[0].Witness = wire.TxWitness{
		signature,
		pr.leaf.Script,
		pr.control,
	}
	return pr.Tx, nil
}

// TxID returns the finalized reveal transaction's txid, once witnesses are
// attached.
func TxID(tx *wire.MsgTx) string {
	h := tx.TxHash()
	return h.String()
}
