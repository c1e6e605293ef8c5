package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/onecard-rewards/pkg/bootstrap"
	"github.com/chris/onecard-rewards/pkg/config"
	"github.com/chris/onecard-rewards/pkg/logging"
	"github.com/chris/onecard-rewards/pkg/rewards"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := logging.Setup(cfg.ServiceName, cfg.Environment, cfg.LogLevel)

	store, _, err := bootstrap.OpenStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	ledger := rewards.NewLedger(store, bootstrap.RewardOptions(cfg, logger, nil))
	lambda.Start(newHandler(rewards.NewSweeper(ledger)))
}
