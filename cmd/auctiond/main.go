package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"

	"github.com/PRIVI-Social-apps/privi-nft-auction/config"
	"github.com/PRIVI-Social-apps/privi-nft-auction/core/events"
	"github.com/PRIVI-Social-apps/privi-nft-auction/core/types"
	"github.com/PRIVI-Social-apps/privi-nft-auction/native/auction"
	"github.com/PRIVI-Social-apps/privi-nft-auction/native/token"
	"github.com/PRIVI-Social-apps/privi-nft-auction/observability/logging"
	"github.com/PRIVI-Social-apps/privi-nft-auction/rpc"
	"github.com/PRIVI-Social-apps/privi-nft-auction/storage"
)

// slogEmitter forwards engine events into the structured log stream.
type slogEmitter struct {
	log *slog.Logger
}

func (e slogEmitter) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	attrs := []any{slog.String("event", evt.EventType())}
	if carrier, ok := evt.(interface{ Event() *types.Event }); ok {
		if inner := carrier.Event(); inner != nil {
			for k, v := range inner.Attributes {
				attrs = append(attrs, slog.String(k, v))
			}
		}
	}
	e.log.Info("auction event", attrs...)
}

func run() error {
	configPath := flag.String("config", "./config.toml", "path to the auctiond config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.Setup("auctiond", cfg.LogEnvironment, cfg.LogFile)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	operator := cfg.Operator()
	registry := token.NewRegistry()
	for _, raw := range cfg.PaymentTokens {
		registry.RegisterPaymentToken(common.HexToAddress(raw), token.NewFungibleLedger(operator))
	}
	for _, raw := range cfg.UniqueTokens {
		registry.RegisterUniqueUnitToken(common.HexToAddress(raw), token.NewUniqueUnitLedger(operator))
	}
	for _, raw := range cfg.MultiTokens {
		registry.RegisterMultiUnitToken(common.HexToAddress(raw), token.NewMultiUnitLedger(operator))
	}

	engine := auction.NewEngine()
	engine.SetState(auction.NewStore(db))
	engine.SetTokenRegistry(registry)
	engine.SetOperator(operator)
	engine.SetEmitter(slogEmitter{log: logger})

	server := rpc.NewServer(engine, registry, cfg.RPCQuotaPerMin)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("rpc listening", "address", cfg.RPCAddress, "network", cfg.NetworkName)
		errCh <- server.Start(cfg.RPCAddress)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		return nil
	case err := <-errCh:
		return fmt.Errorf("rpc server: %w", err)
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
