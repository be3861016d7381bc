package selector

import (
	"testing"

	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/pkg/models"
)

func TestSelect_DustAbsorption(t *testing.T) {
	candidates := []models.UTXO{{TxID: "a", Vout: 0, Value: 1500}}
	res, err := Select(candidates, Policy{Target: 546, FeeRate: 5, Strategy: MinimizeInputs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HasChange {
		t.Errorf("expected no change output, got %+v", res)
	}
	if len(res.Selected) != 1 {
		t.Errorf("expected 1 input, got %d", len(res.Selected))
	}
	if res.TotalInput != 1500 {
		t.Errorf("expected selected value 1500, got %d", res.TotalInput)
	}
	if res.TotalInput < 546+res.Fee {
		t.Errorf("invariant violated: total %d < target+fee %d", res.TotalInput, 546+res.Fee)
	}
}

func TestSelect_ForbidInscriptionBearing_AllCarry(t *testing.T) {
	candidates := []models.UTXO{{TxID: "a", Vout: 0, Value: 10000, CarriesInscription: true}}
	_, err := Select(candidates, Policy{Target: 546, FeeRate: 5, ForbidInscriptionBearing: true})
	if !enginerr.Is(err, enginerr.AllInputsCarryInscription) {
		t.Fatalf("expected AllInputsCarryInscription, got %v", err)
	}
}

func TestSelect_ConflictingLocks(t *testing.T) {
	candidates := []models.UTXO{{TxID: "a", Vout: 0, Value: 10000, Locked: true}}
	_, err := Select(candidates, Policy{Target: 546, FeeRate: 5, AllowLocked: false})
	if !enginerr.Is(err, enginerr.ConflictingLocks) {
		t.Fatalf("expected ConflictingLocks, got %v", err)
	}
}

func TestSelect_DustTarget(t *testing.T) {
	candidates := []models.UTXO{{TxID: "a", Vout: 0, Value: 10000}}
	_, err := Select(candidates, Policy{Target: 100, FeeRate: 5})
	if !enginerr.Is(err, enginerr.DustOutput) {
		t.Fatalf("expected DustOutput, got %v", err)
	}
}

func TestSelect_TooLowFee(t *testing.T) {
	candidates := []models.UTXO{{TxID: "a", Vout: 0, Value: 10000}}
	_, err := Select(candidates, Policy{Target: 1000, FeeRate: 0})
	if !enginerr.Is(err, enginerr.TooLowFee) {
		t.Fatalf("expected TooLowFee, got %v", err)
	}
}

func TestSelect_InsufficientFunds(t *testing.T) {
	candidates := []models.UTXO{{TxID: "a", Vout: 0, Value: 500}}
	_, err := Select(candidates, Policy{Target: 10000, FeeRate: 5})
	if !enginerr.Is(err, enginerr.InsufficientFunds) {
		t.Fatalf("expected InsufficientFunds, got %v", err)
	}
}

func TestSelect_MinimizeInputs_PicksLargestFirst(t *testing.T) {
	candidates := []models.UTXO{
		{TxID: "a", Vout: 0, Value: 1000},
		{TxID: "b", Vout: 0, Value: 50000},
		{TxID: "c", Vout: 0, Value: 2000},
	}
	res, err := Select(candidates, Policy{Target: 10000, FeeRate: 1, Strategy: MinimizeInputs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Selected) != 1 || res.Selected[0].TxID != "b" {
		t.Errorf("expected single largest UTXO selected, got %+v", res.Selected)
	}
}

func TestSelect_MinimizeChange_PicksSmallestFirst(t *testing.T) {
	candidates := []models.UTXO{
		{TxID: "a", Vout: 0, Value: 3000},
		{TxID: "b", Vout: 0, Value: 50000},
		{TxID: "c", Vout: 0, Value: 4000},
	}
	res, err := Select(candidates, Policy{Target: 6000, FeeRate: 1, Strategy: MinimizeChange})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Selected) != 2 {
		t.Fatalf("expected 2 inputs accumulated ascending, got %d", len(res.Selected))
	}
	if res.Selected[0].TxID != "a" || res.Selected[1].TxID != "c" {
		t.Errorf("expected ascending accumulation a,c; got %+v", res.Selected)
	}
}

func TestSelect_AvoidList(t *testing.T) {
	candidates := []models.UTXO{
		{TxID: "a", Vout: 0, Value: 10000},
		{TxID: "b", Vout: 1, Value: 10000},
	}
	res, err := Select(candidates, Policy{
		Target: 5000, FeeRate: 1,
		Avoid: map[string]bool{"a:0": true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, u := range res.Selected {
		if u.TxID == "a" {
			t.Errorf("avoided UTXO was selected: %+v", res.Selected)
		}
	}
}

func TestEstimateFee_Defaults(t *testing.T) {
	got := EstimateFee(5, 1, 2, FeeParams{})
	want := int64(5 * (10 + 148 + 34*2))
	if got != want {
		t.Errorf("EstimateFee(5,1,2) = %d, want %d", got, want)
	}
}
