package payroll

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relayhq/relaypay-backend/pkg/enums"
)

func TestSimulatedExecutor_Success(t *testing.T) {
	exec := &SimulatedExecutor{HashFn: func() string { return "0xdeadbeef" }}

	res := exec.Execute(context.Background(), solanaLeg("100.00"), ResolvedQuote{QuoteID: "req-1"})
	if res.Status != enums.PayEventStatusComplete {
		t.Fatalf("expected complete, got %s", res.Status)
	}
	if res.TxHash != "0xdeadbeef" {
		t.Fatalf("expected injected hash, got %q", res.TxHash)
	}
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
}

func TestSimulatedExecutor_RandomizedHashes(t *testing.T) {
	exec := NewSimulatedExecutor()

	first := exec.Execute(context.Background(), solanaLeg("10.00"), ResolvedQuote{})
	second := exec.Execute(context.Background(), solanaLeg("10.00"), ResolvedQuote{})
	if first.TxHash == second.TxHash {
		t.Fatalf("expected distinct transfer hashes, got %q twice", first.TxHash)
	}
	if !strings.HasPrefix(first.TxHash, "0x") || len(first.TxHash) != 66 {
		t.Fatalf("unexpected hash shape: %q", first.TxHash)
	}
}

func TestSimulatedExecutor_MissingWallet(t *testing.T) {
	exec := NewSimulatedExecutor()
	leg := Leg{EmployeeID: uuid.New(), Amount: decimal.NewFromInt(50)}

	res := exec.Execute(context.Background(), leg, ResolvedQuote{})
	if res.Status != enums.PayEventStatusFailed {
		t.Fatalf("expected failed, got %s", res.Status)
	}
	if res.Err == nil || !strings.Contains(res.Err.Error(), "wallet address") {
		t.Fatalf("expected wallet error, got %v", res.Err)
	}
	if res.TxHash != "" {
		t.Fatalf("failed leg must not carry a transfer hash, got %q", res.TxHash)
	}
}

func TestSimulatedExecutor_CancelledContext(t *testing.T) {
	exec := NewSimulatedExecutor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := exec.Execute(ctx, solanaLeg("100.00"), ResolvedQuote{})
	if res.Status != enums.PayEventStatusFailed {
		t.Fatalf("expected failed, got %s", res.Status)
	}
	if res.Err == nil || !strings.Contains(res.Err.Error(), "cancelled") {
		t.Fatalf("expected cancellation error, got %v", res.Err)
	}
}

func TestSimulatedExecutor_NonPositiveAmount(t *testing.T) {
	exec := NewSimulatedExecutor()
	leg := solanaLeg("100.00")
	leg.Amount = decimal.Zero

	res := exec.Execute(context.Background(), leg, ResolvedQuote{})
	if res.Status != enums.PayEventStatusFailed {
		t.Fatalf("expected failed, got %s", res.Status)
	}
}
