package rewards

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
	"github.com/shopspring/decimal"
)

// SweepReport summarises one claim sweep.
type SweepReport struct {
	Scanned int
	Claimed int
	Skipped int
	Failed  int
	Amount  decimal.Decimal
}

// Sweeper claims escrowed rewards for phone numbers that have since registered
// a customer account under that number.
type Sweeper struct {
	ledger *Ledger
}

// NewSweeper creates a Sweeper that claims through ledger.
func NewSweeper(ledger *Ledger) *Sweeper {
	return &Sweeper{ledger: ledger}
}

// Run scans every pending entry once. Individual claim failures are logged and
// counted; only a failure to list the entries aborts the sweep.
func (s *Sweeper) Run(ctx context.Context) (*SweepReport, error) {
	logger := s.ledger.opts.Logger
	report := &SweepReport{Amount: decimal.Zero}

	rewards, err := s.ledger.store.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending rewards: %w", err)
	}

	for _, reward := range rewards {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Scanned++

		_, err := s.ledger.store.GetAccount(ctx, models.CUSTOMER, reward.Phone)
		if errors.Is(err, storage.ErrAccountNotFound) {
			report.Skipped++
			continue
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to look up account for pending reward", "phone", reward.Phone, "error", err)
			report.Failed++
			continue
		}

		result, err := s.ledger.ClaimPending(ctx, reward.Phone, reward.Phone)
		if err != nil {
			report.Failed++
			continue
		}
		if result.Claimed {
			report.Claimed++
			report.Amount = report.Amount.Add(result.Amount)
		} else {
			report.Skipped++
		}
	}

	logger.InfoContext(ctx, "claim sweep completed",
		"scanned", report.Scanned, "claimed", report.Claimed, "skipped", report.Skipped,
		"failed", report.Failed, "amount", report.Amount.String())
	return report, nil
}
