package main

import (
	"context"

	"github.com/chris/onecard-rewards/pkg/rewards"
)

// sweepSummary is the Lambda response for one scheduled sweep.
type sweepSummary struct {
	Scanned int    `json:"scanned"`
	Claimed int    `json:"claimed"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Amount  string `json:"amount"`
}

// newHandler returns the function triggered by the EventBridge schedule.
func newHandler(sweeper *rewards.Sweeper) func(ctx context.Context) (*sweepSummary, error) {
	return func(ctx context.Context) (*sweepSummary, error) {
		report, err := sweeper.Run(ctx)
		if err != nil {
			return nil, err
		}
		return &sweepSummary{
			Scanned: report.Scanned,
			Claimed: report.Claimed,
			Skipped: report.Skipped,
			Failed:  report.Failed,
			Amount:  report.Amount.StringFixed(2),
		}, nil
	}
}
