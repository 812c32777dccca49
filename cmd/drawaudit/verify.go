package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"drawaudit/internal/fetch"
	"drawaudit/internal/history"
	"drawaudit/internal/logging"
	"drawaudit/internal/verify"
	"drawaudit/internal/winners"
)

var (
	verifyWinners      string
	verifySnapshot     string
	verifyBase         string
	verifyPeriod       string
	verifyLevel        string
	verifyPolicy       string
	verifyShardBuckets int
	verifyFormat       string
	verifyQuiet        bool
	verifyNoHistory    bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a published draw",
	Long: `Verify a published draw against its committed snapshot.

Artifacts come either from an explicit --winners/--snapshot pair or from
the published layout <base>/<period>/winners.json and
<base>/<period>/snapshot.csv.

Exit codes:
  0  all requested levels passed (or were skipped by policy)
  1  usage, input, or fetch error
  2  level 1 failed: snapshot bytes do not match the committed hash
  3  level 2 failed: ordering, totals, or canonical-hash violation
  4  level 3 failed: seed not revealed under --on-missing-seed=error
  5  level 3 failed: winners diverge from the reproduced draw

Examples:
  drawaudit verify --base=https://draws.example.com/audit --period=2025-07
  drawaudit verify --winners=winners.json --snapshot=snapshot.csv
  drawaudit verify --base=... --period=2025-07 --level=1,2
  drawaudit verify --base=... --period=2025-07 --on-missing-seed=error`,
	Run: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyWinners, "winners", "", "Winners document path or URL")
	verifyCmd.Flags().StringVar(&verifySnapshot, "snapshot", "", "Snapshot path or URL")
	verifyCmd.Flags().StringVar(&verifyBase, "base", "", "Artifact base URL or directory")
	verifyCmd.Flags().StringVar(&verifyPeriod, "period", "", "Draw period, e.g. 2025-07")
	verifyCmd.Flags().StringVar(&verifyLevel, "level", "all", "Audit levels: all or a comma list of 1,2,3")
	verifyCmd.Flags().StringVar(&verifyPolicy, "on-missing-seed", "", "Unrevealed-seed policy: error, skip or warn (default: skip)")
	verifyCmd.Flags().IntVar(&verifyShardBuckets, "shard-buckets", 0, "Known shard bucket count; 0 disables the range check")
	verifyCmd.Flags().StringVar(&verifyFormat, "format", "human", "Output format (json, human)")
	verifyCmd.Flags().BoolVar(&verifyQuiet, "quiet", false, "Print only the overall verdict")
	verifyCmd.Flags().BoolVar(&verifyNoHistory, "no-history", false, "Do not record this run in the local ledger")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if verifyQuiet {
		logging.Quiet()
	}

	format, err := ParseFormat(verifyFormat)
	if err != nil {
		fatalUsage(err)
	}
	levels, err := verify.ParseLevels(verifyLevel)
	if err != nil {
		fatalUsage(err)
	}
	policy, err := verify.ParseMissingSeedPolicy(
		resolveString(verifyPolicy, "DRAWAUDIT_ONMISSINGSEED", cfg.OnMissingSeed))
	if err != nil {
		fatalUsage(err)
	}
	buckets := verifyShardBuckets
	if buckets == 0 {
		buckets = cfg.ShardBuckets
	}

	sources, err := fetch.Resolve(verifyWinners, verifySnapshot,
		resolveString(verifyBase, "DRAWAUDIT_BASE", cfg.Base), verifyPeriod)
	if err != nil {
		fatalUsage(err)
	}

	ctx := context.Background()
	winnersRaw, err := fetch.Load(ctx, sources.Winners)
	if err != nil {
		fatalUsage(err)
	}
	snapshotRaw, err := fetch.Load(ctx, sources.Snapshot)
	if err != nil {
		fatalUsage(err)
	}

	doc, err := winners.Decode(winnersRaw)
	if err != nil {
		fatalUsage(err)
	}

	report, err := verify.Run(snapshotRaw, doc, verify.Options{
		Levels:         levels,
		Policy:         policy,
		ShardBuckets:   buckets,
		PeriodFallback: verifyPeriod,
		WinnersSource:  sources.Winners,
		SnapshotSource: sources.Snapshot,
	})
	if err != nil {
		fatalUsage(err)
	}

	if verifyQuiet {
		fmt.Printf("%s: %s\n", report.Period, statusLabel(report.Overall))
	} else {
		out, err := FormatReport(report, format)
		if err != nil {
			fatalUsage(err)
		}
		fmt.Print(out)
	}

	if !verifyNoHistory {
		recordRun(cfg.HistoryPath, report)
	}

	os.Exit(int(DetermineExitCode(report)))
}

// recordRun appends the run to the local ledger. Ledger trouble is logged
// and never changes the verification outcome.
func recordRun(configuredPath string, report *verify.Report) {
	path := resolveString("", "DRAWAUDIT_HISTORYPATH", configuredPath)
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			log.WithError(err).Warn("run not recorded")
			return
		}
	}

	db, err := history.Open(path)
	if err != nil {
		log.WithError(err).Warn("run not recorded")
		return
	}
	defer db.Close()

	_, err = db.Append(history.RunRecord{
		Period:          report.Period,
		WinnersSource:   report.WinnersSource,
		SnapshotSource:  report.SnapshotSource,
		SnapshotHashHex: report.CommittedHashHex,
		Level1:          string(report.LevelStatus(verify.Level1)),
		Level2:          string(report.LevelStatus(verify.Level2)),
		Level3:          string(report.LevelStatus(verify.Level3)),
		Overall:         string(report.Overall),
	})
	if err != nil {
		log.WithError(err).Warn("run not recorded")
	}
}

func fatalUsage(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(int(ExitUsage))
}
