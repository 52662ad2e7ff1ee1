package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"PatternScan/internal/domain/models"
	"PatternScan/internal/domain/repository"
	"PatternScan/internal/service/bybit"
	"PatternScan/internal/services/analytics"
	"PatternScan/internal/usecase"
	"PatternScan/pkg/config"
	xhttp "PatternScan/pkg/http"
	"PatternScan/pkg/logger"
	"PatternScan/pkg/util"
)

func main() {
	cfg, err := config.Default()
	if err != nil {
		log.Fatalf("config defaults: %v", err)
	}

	symbol := flag.String("symbol", "BTCUSDT", "trading pair")
	tf := flag.String("tf", string(repository.DefaultTimeframe()), "timeframe (1m 3m 5m 15m 30m 1h 4h 1d)")
	capital := flag.String("capital", "", "trading capital, 100 when empty or invalid")
	baseURL := flag.String("base-url", cfg.Exchange.BaseURL, "exchange REST base URL")
	category := flag.String("category", cfg.Exchange.Category, "exchange market category")
	limit := flag.Int("limit", cfg.Exchange.KlineLimit, "candles to fetch")
	verbose := flag.Bool("v", false, "log requests to stderr")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	l, err := logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := bybit.NewClient(*baseURL, *category,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Exchange.Timeout)),
		bybit.WithLogger(l),
	)
	scanner := usecase.NewScanner(client, analytics.NewClassifier(), analytics.NewCalculator(), nil, l, 0, *limit)

	syms := util.SplitSymbols(*symbol)
	if len(syms) != 1 {
		log.Fatalf("exactly one symbol is required, got %q", *symbol)
	}
	timeframe := repository.Timeframe(*tf)

	row, candles, err := scanner.Pattern(ctx, syms[0], timeframe, analytics.ParseCapital(*capital), *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching data: %v\n", err)
		os.Exit(1)
	}
	printReport(os.Stdout, row, timeframe, candles)
}

func printReport(w io.Writer, row models.ScanRow, tf repository.Timeframe, candles []models.Candle) {
	res := row.Result
	fmt.Fprintf(w, "Pair:       %s (%s, %d candles)\n", row.Symbol, tf, len(candles))
	fmt.Fprintf(w, "Pattern:    %s\n", res.Pattern)
	fmt.Fprintf(w, "Candle:     %s UTC\n", util.FormatMillis(res.Timestamp))
	fmt.Fprintf(w, "TP1:        %s\n", fmtLevel(res.TP1))
	fmt.Fprintf(w, "TP2:        %s\n", fmtLevel(res.TP2))
	fmt.Fprintf(w, "TP3:        %s\n", fmtLevel(res.TP3))
	fmt.Fprintf(w, "SL:         %s\n", fmtLevel(res.StopLoss))

	p := row.Projection
	if p == nil {
		return
	}
	fmt.Fprintf(w, "Entry:      %.4f\n", p.Entry)
	fmt.Fprintf(w, "Capital:    %.2f\n", p.Capital)
	fmt.Fprintf(w, "Leverage:   %.1f\n", p.Leverage)
	fmt.Fprintf(w, "Profit TP1: %s\n", fmtLevel(p.ProfitTP1))
	fmt.Fprintf(w, "Profit TP2: %s\n", fmtLevel(p.ProfitTP2))
	fmt.Fprintf(w, "Profit TP3: %s\n", fmtLevel(p.ProfitTP3))
	fmt.Fprintf(w, "Loss:       %s\n", fmtLevel(p.Loss))
}

func fmtLevel(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *v)
}
