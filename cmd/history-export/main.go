// Command history-export pulls daily candle history from the backend and
// archives it locally as Parquet, one file per symbol per year. Re-running
// merges into existing files, so it is safe as a cron job.
//
// Usage:
//
//	history-export [-symbols FPT,VCB] [-all]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"stockwatch/internal/api"
	"stockwatch/internal/config"
	"stockwatch/internal/market"
	"stockwatch/internal/session"
	"stockwatch/internal/store"
	"stockwatch/internal/util"
)

func main() {
	symbolsFlag := flag.String("symbols", "", "comma-separated symbols to export")
	all := flag.Bool("all", false, "export the whole configured universe")
	flag.Parse()

	_ = godotenv.Load()

	cfgPath := "config/stockwatch.yaml"
	if p := os.Getenv("STOCKWATCH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(util.LogOptions{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	symbols, err := resolveSymbols(cfg, *symbolsFlag, *all)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	kv, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open local store: %v", err)
	}
	defer kv.Close()

	sess := session.NewManager(kv, logger)
	ctx := context.Background()
	if err := sess.Load(ctx); err != nil {
		log.Fatalf("failed to load session: %v", err)
	}
	if !sess.LoggedIn() {
		log.Fatal("not logged in; run `stockwatch login` first")
	}

	client := api.NewClient(cfg.API.BaseURL, api.Options{
		Tokens:        sess,
		OnAuthFailure: sess.HandleAuthFailure,
		Logger:        logger,
	})
	archive := store.NewHistoryArchive(cfg.Storage.DataDir)

	var exported, failed int
	for _, sym := range symbols {
		candles, err := client.History(ctx, sym)
		if err != nil {
			if api.IsAuthRequired(err) {
				log.Fatalf("error: %v", err)
			}
			logger.Warn("history fetch failed", "symbol", sym, "error", err)
			failed++
			continue
		}
		if len(candles) == 0 {
			logger.Info("no history", "symbol", sym)
			continue
		}
		if err := archive.WriteCandles(candles); err != nil {
			log.Fatalf("error archiving %s: %v", sym, err)
		}
		logger.Info("archived", "symbol", sym, "candles", len(candles))
		exported++
	}

	logger.Info("export complete", "symbols", exported, "failed", failed)
}

func resolveSymbols(cfg *config.Config, symbolsFlag string, all bool) ([]string, error) {
	if symbolsFlag != "" {
		var symbols []string
		for _, s := range strings.Split(symbolsFlag, ",") {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s != "" {
				symbols = append(symbols, s)
			}
		}
		if len(symbols) == 0 {
			return nil, fmt.Errorf("no symbols in -symbols")
		}
		return symbols, nil
	}
	if !all {
		return nil, fmt.Errorf("pass -symbols or -all")
	}
	if cfg.Storage.SymbolsCSV != "" {
		return market.LoadCSVUniverse(cfg.Storage.SymbolsCSV)
	}
	return market.DefaultUniverse, nil
}
