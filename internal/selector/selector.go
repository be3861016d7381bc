// Package selector implements the policy-driven UTXO selection from
// spec §4.4, including ordinal-safety guarantees and fee estimation.
package selector

import (
	"math"
	"sort"

	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/pkg/models"
)

// DustLimit is the minimum standard output value, per spec §6.
const DustLimit = 546

// Strategy selects how candidates are ordered and accumulated.
type Strategy string

const (
	MinimizeInputs Strategy = "minimizeInputs"
	MinimizeChange Strategy = "minimizeChange"
	OptimizeSize   Strategy = "optimizeSize"
)

// FeeParams overrides the per-byte cost model; zero values fall back to the
// spec defaults (10, 148, 34).
type FeeParams struct {
	BaseTxBytes    int64
	BytesPerInput  int64
	BytesPerOutput int64
}

func (p FeeParams) withDefaults() FeeParams {
	if p.BaseTxBytes == 0 {
		p.BaseTxBytes = 10
	}
	if p.BytesPerInput == 0 {
		p.BytesPerInput = 148
	}
	if p.BytesPerOutput == 0 {
		p.BytesPerOutput = 34
	}
	return p
}

// EstimateFee computes ceil(feeRate * (base + numInputs*perInput + numOutputs*perOutput)).
func EstimateFee(feeRate float64, numInputs, numOutputs int, params FeeParams) int64 {
	p := params.withDefaults()
	size := p.BaseTxBytes + int64(numInputs)*p.BytesPerInput + int64(numOutputs)*p.BytesPerOutput
	return int64(math.Ceil(feeRate * float64(size)))
}

// Policy configures a single selection call.
type Policy struct {
	Target                     int64
	FeeRate                    float64
	AllowLocked                bool
	ForbidInscriptionBearing   bool
	Avoid                      map[string]bool // "txid:vout"
	Strategy                   Strategy
	FeeParams                  FeeParams
}

// Result is a successful selection.
type Result struct {
	Selected     []models.UTXO
	ChangeValue  int64
	HasChange    bool
	Fee          int64
	TotalInput   int64
}

func avoided(p Policy, u models.UTXO) bool {
	if p.Avoid == nil {
		return false
	}
	return p.Avoid[u.Outpoint()]
}

// eligible filters candidates per the policy's safety flags and avoid-list,
// without yet consulting amounts.
func eligible(candidates []models.UTXO, p Policy) ([]models.UTXO, error) {
	out := make([]models.UTXO, 0, len(candidates))
	sawInscriptionBearing := false
	sawLocked := false
	for _, u := range candidates {
		if avoided(p, u) {
			continue
		}
		if u.CarriesInscription {
			sawInscriptionBearing = true
			if p.ForbidInscriptionBearing {
				continue
			}
		}
		if u.Locked {
			sawLocked = true
			if !p.AllowLocked {
				continue
			}
		}
		out = append(out, u)
	}
	if len(out) == 0 {
		if sawInscriptionBearing && p.ForbidInscriptionBearing {
			return nil, enginerr.New(enginerr.AllInputsCarryInscription,
				"all candidate UTXOs carry an inscription and the policy forbids spending them")
		}
		if sawLocked && !p.AllowLocked {
			return nil, enginerr.New(enginerr.ConflictingLocks,
				"the only sufficient candidates are locked and the policy forbids spending them")
		}
	}
	return out, nil
}

func sortCandidates(candidates []models.UTXO, strategy Strategy) []models.UTXO {
	sorted := append([]models.UTXO(nil), candidates...)
	switch strategy {
	case MinimizeChange:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })
	case OptimizeSize:
		// Balance: prefer fewer, larger inputs, but among equal-ish choices
		// this degenerates to descending order, same as minimizeInputs,
		// with the tie-break of stable sort preserving input order for
		// equal values — documented here since spec leaves it
		// implementation-defined.
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
	case MinimizeInputs:
		fallthrough
	default:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
	}
	return sorted
}

// Select runs the policy-driven selection described in spec §4.4.
//
// Selection begins assuming two outputs (recipient + change). If the
// resulting change would be dust, the fee is recomputed for a single
// output over the same selected inputs; if change is still dust-sized (or
// negative), the residual is absorbed into the fee and no change output is
// emitted. Funds are insufficient only when the full eligible candidate
// set cannot even cover the bare target, independent of fee.
func Select(candidates []models.UTXO, p Policy) (Result, error) {
	if p.Target < DustLimit {
		return Result{}, enginerr.Newf(enginerr.DustOutput,
			"target %d is below the dust limit of %d", p.Target, DustLimit)
	}
	if p.FeeRate <= 0 {
		return Result{}, enginerr.Newf(enginerr.TooLowFee, "fee rate must be positive, got %v", p.FeeRate)
	}

	safe, err := eligible(candidates, p)
	if err != nil {
		return Result{}, err
	}

	ordered := sortCandidates(safe, p.Strategy)

	selected, total, fee2 := accumulate(ordered, p, 2)
	if change := total - p.Target - fee2; change >= DustLimit {
		return Result{Selected: selected, ChangeValue: change, HasChange: true, Fee: fee2, TotalInput: total}, nil
	}

	fee1 := EstimateFee(p.FeeRate, len(selected), 1, p.FeeParams)
	if change := total - p.Target - fee1; change >= DustLimit {
		return Result{Selected: selected, ChangeValue: change, HasChange: true, Fee: fee1, TotalInput: total}, nil
	}

	if total < p.Target {
		return Result{}, enginerr.Newf(enginerr.InsufficientFunds,
			"insufficient funds: eligible candidates total %d, need at least %d", total, p.Target)
	}

	// Dust-sized or negative residual: absorb it into the fee entirely.
	return Result{Selected: selected, ChangeValue: 0, HasChange: false, Fee: total - p.Target, TotalInput: total}, nil
}

// accumulate walks ordered candidates (already sorted per strategy),
// including inputs one at a time until total covers target plus the
// numOutputs-output fee for the inputs included so far, or candidates are
// exhausted.
func accumulate(ordered []models.UTXO, p Policy, numOutputs int) ([]models.UTXO, int64, int64) {
	var selected []models.UTXO
	var total int64
	for _, u := range ordered {
		selected = append(selected, u)
		total += u.Value
		fee := EstimateFee(p.FeeRate, len(selected), numOutputs, p.FeeParams)
		if total >= p.Target+fee {
			return selected, total, fee
		}
	}
	return selected, total, EstimateFee(p.FeeRate, len(selected), numOutputs, p.FeeParams)
}
