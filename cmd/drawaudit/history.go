package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"drawaudit/internal/history"
)

var (
	historyPeriod string
	historyLimit  int
	historyFormat string
	historyCheck  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded verification runs",
	Long: `List the verification runs recorded in the local ledger.

Records are hash-chained: each entry commits to its predecessor, so a
rewritten ledger is detectable. --check re-derives the whole chain.

Examples:
  drawaudit history
  drawaudit history --period=2025-07 --limit=10
  drawaudit history --check`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyPeriod, "period", "", "Only runs for this period")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list (0 = all)")
	historyCmd.Flags().StringVar(&historyFormat, "format", "human", "Output format (json, human)")
	historyCmd.Flags().BoolVar(&historyCheck, "check", false, "Verify the ledger hash chain instead of listing")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	format, err := ParseFormat(historyFormat)
	if err != nil {
		fatalUsage(err)
	}

	cfg := loadConfig()
	path := resolveString("", "DRAWAUDIT_HISTORYPATH", cfg.HistoryPath)
	if path == "" {
		path, err = history.DefaultPath()
		if err != nil {
			fatalUsage(err)
		}
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		fmt.Println("no recorded runs")
		return
	}

	db, err := history.Open(path)
	if err != nil {
		fatalUsage(err)
	}
	defer db.Close()

	if historyCheck {
		n, err := db.CheckChain()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ledger chain broken after %d records: %v\n", n, err)
			os.Exit(int(ExitUsage))
		}
		fmt.Printf("ledger chain intact: %d records verified\n", n)
		return
	}

	runs, err := db.List(historyPeriod, historyLimit)
	if err != nil {
		fatalUsage(err)
	}
	out, err := FormatRuns(runs, format)
	if err != nil {
		fatalUsage(err)
	}
	fmt.Print(out)
}
