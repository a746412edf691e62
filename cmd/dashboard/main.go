// Command dashboard prints the filtered items of a running server as a table
// and evaluates the resale calculator offline.
//
//	dashboard load -server http://localhost:8080 -min-profit 5 -sort buffPrice
//	dashboard calc -buy 100 -sell 130
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/samber/lo"

	"skin_market/internal/dashboard"
	"skin_market/internal/domain/service/calc"
	"skin_market/pkg/contextx"
	"skin_market/pkg/logx"
)

var errUsage = errors.New("usage: dashboard load|calc [flags]")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(logx.NewHandler(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")))
	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Error("dashboard", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "load":
		return load(ctx, args[1:])
	case "calc":
		return calculate(args[1:])
	default:
		return errUsage
	}
}

func load(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)

	var (
		in dashboard.Inputs

		serverURL = fs.String("server", "http://localhost:8080", "dashboard server base URL")
		timeout   = fs.Duration("timeout", 15*time.Minute, "request timeout")
		sortKeys  = fs.String("sort", "", "column to sort by; repeat the key to flip the direction, e.g. buffPrice,buffPrice")
	)

	filterFlags(fs, &in)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("fs.Parse: %w", err)
	}

	board := dashboard.New(dashboard.NewClient(*serverURL, &http.Client{Timeout: *timeout}))

	if err := board.LoadData(ctx, in); err != nil {
		fmt.Fprintln(os.Stderr, board.Status())
		return fmt.Errorf("board.LoadData: %w", err)
	}

	for _, key := range splitKeys(*sortKeys) {
		if err := board.ToggleSort(key); err != nil {
			return fmt.Errorf("board.ToggleSort(%s): %w", key, err)
		}
	}

	if err := dashboard.WriteTable(os.Stdout, board.Headers(), board.Rows()); err != nil {
		return fmt.Errorf("dashboard.WriteTable: %w", err)
	}

	fmt.Fprintln(os.Stderr, board.Status())

	return nil
}

// filterFlags binds the filter inputs. The price bounds apply to the market
// price of an item.
func filterFlags(fs *flag.FlagSet, in *dashboard.Inputs) {
	fs.StringVar(&in.MinProfit, "min-profit", "", "minimum profit, percent")
	fs.StringVar(&in.MinPrice, "min-price", "", "minimum market price")
	fs.StringVar(&in.MaxPrice, "max-price", "", "maximum market price")
}

func calculate(args []string) error {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)

	var (
		buy        = fs.String("buy", "", "buy price")
		sell       = fs.String("sell", "", "sell price")
		commission = fs.Float64("commission", calc.DefaultCommissionRate, "commission kept from the sale, 0..1")
	)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("fs.Parse: %w", err)
	}

	calculator, err := calc.NewCalculator(*commission)
	if err != nil {
		return fmt.Errorf("calc.NewCalculator: %w", err)
	}

	result, ok := calculator.CalculateInput(*buy, *sell)
	if !ok {
		fmt.Println("enter both prices")
		return nil
	}

	fmt.Printf("net %s  %s: %s (%s%%)\n",
		result.NetProceeds.StringFixed(2), result.Class(), result.AmountText(), result.PercentText())

	return nil
}

func splitKeys(s string) []string {
	return lo.Compact(strings.Split(s, ","))
}
