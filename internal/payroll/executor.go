package payroll

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/relayhq/relaypay-backend/pkg/enums"
)

// Executor submits one resolved leg and reports the outcome. It must not
// retry internally and must not persist anything; both belong to the
// orchestrator.
type Executor interface {
	Execute(ctx context.Context, leg Leg, quote ResolvedQuote) ExecutionResult
}

// SimulatedExecutor stands in for transaction signing and broadcast. It
// fabricates a transfer hash via an injectable generator so tests can pin
// identifiers down.
type SimulatedExecutor struct {
	HashFn func() string
}

// NewSimulatedExecutor returns an executor with a randomized hash generator.
func NewSimulatedExecutor() *SimulatedExecutor {
	return &SimulatedExecutor{HashFn: randomTxHash}
}

func (e *SimulatedExecutor) Execute(ctx context.Context, leg Leg, quote ResolvedQuote) ExecutionResult {
	if err := ctx.Err(); err != nil {
		return ExecutionResult{Status: enums.PayEventStatusFailed, Err: fmt.Errorf("run cancelled: %w", err)}
	}
	if leg.ToAddress == "" {
		return ExecutionResult{
			Status: enums.PayEventStatusFailed,
			Err:    fmt.Errorf("employee %s has no wallet address", leg.EmployeeID),
		}
	}
	if !leg.Amount.IsPositive() {
		return ExecutionResult{
			Status: enums.PayEventStatusFailed,
			Err:    fmt.Errorf("leg amount %s is not positive", leg.Amount),
		}
	}

	gen := e.HashFn
	if gen == nil {
		gen = randomTxHash
	}
	return ExecutionResult{TxHash: gen(), Status: enums.PayEventStatusComplete}
}

func randomTxHash() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return "0x" + hex.EncodeToString(buf)
}
