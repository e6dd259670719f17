package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fimcorpus/internal/config"
	"fimcorpus/internal/directive"
	"fimcorpus/internal/logging"
	"fimcorpus/internal/pipeline"
	"fimcorpus/internal/record"
	"fimcorpus/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:   "fimcorpus",
		Short: "Build a validated fill-in-the-middle training corpus from raw source files",
	}
	configPath string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "fimcorpus.yaml", "Path to the pipeline configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statsCmd)
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log, err := logging.New(verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Scan a source tree and emit the filtered FIM corpus",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("📂 Building corpus from %s\n", root)
		rep, err := pipeline.New(cfg, log).Run(ctx, root)
		if err != nil {
			return err
		}

		if cfg.Output.ReportPath != "" {
			if err := rep.WriteFile(cfg.Output.ReportPath); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}

		for _, ph := range rep.Phases {
			fmt.Printf("  phase %-10s %9d in  %9d out  (%.2f%%)\n", ph.Name, ph.In, ph.Out, ph.AcceptanceRate*100)
		}
		fmt.Printf("✅ %d records from %d files in %dms → %s\n",
			rep.RecordsEmitted, rep.FilesProcessed, rep.DurationMS, cfg.Output.CorpusPath)
		if rep.Cancelled {
			fmt.Println("⚠️  run was cancelled; counts cover completed files only")
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <corpus.jsonl>",
	Short: "Re-check every emitted record for orphaned conditional directives",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		recs, err := record.ReadAll(f)
		if err != nil {
			return err
		}

		var orphans, unmatched int
		for _, rec := range recs {
			// The prefix is what the model sees; it must stand on its own.
			// The middle and suffix are only held to the same bar when the
			// strict suffix policy produced them.
			text := rec.Prefix
			if cfg.CheckSuffixDirectives {
				text = rec.Prefix + rec.Middle + rec.Suffix
			}
			switch res := directive.Balanced([]byte(text)); res.Failure {
			case directive.FailOrphan:
				orphans++
				fmt.Printf("  orphan directive in %s (record %s)\n", rec.Source.Path, rec.ID)
			case directive.FailUnmatchedEndif:
				unmatched++
				fmt.Printf("  unmatched #endif in %s (record %s)\n", rec.Source.Path, rec.ID)
			}
		}

		fmt.Printf("checked %d records: %d orphaned directives, %d unmatched #endif\n",
			len(recs), orphans, unmatched)
		if orphans+unmatched > 0 {
			return fmt.Errorf("corpus contains %d structurally invalid records", orphans+unmatched)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <corpus.jsonl>",
	Short: "Summarize length and ratio characteristics of a corpus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		recs, err := record.ReadAll(f)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("empty corpus")
			return nil
		}

		byLang := make(map[string]int)
		var prefixLens, middleLens []int
		for _, rec := range recs {
			byLang[rec.Language]++
			prefixLens = append(prefixLens, len(rec.Prefix))
			middleLens = append(middleLens, len(rec.Middle))
		}

		fmt.Printf("records: %d\n", len(recs))
		langs := make([]string, 0, len(byLang))
		for l := range byLang {
			langs = append(langs, l)
		}
		sort.Strings(langs)
		for _, l := range langs {
			fmt.Printf("  %-8s %d\n", l, byLang[l])
		}
		fmt.Printf("prefix length: mean %.1f median %d\n", mean(prefixLens), median(prefixLens))
		fmt.Printf("middle length: mean %.1f median %d\n", mean(middleLens), median(middleLens))

		return printIndexStats(cmd.Context(), cfg.Output.IndexPath, int64(len(recs)))
	},
}

// printIndexStats cross-checks the SQLite index against the JSONL corpus
// when an index exists. A missing index is not an error.
func printIndexStats(ctx context.Context, indexPath string, corpusCount int64) error {
	if indexPath == "" {
		return nil
	}
	if _, err := os.Stat(indexPath); err != nil {
		return nil
	}

	store, err := storage.NewSQLiteStore(indexPath)
	if err != nil {
		return fmt.Errorf("open index %s: %w", indexPath, err)
	}
	defer store.Close()

	n, err := store.CountRecords(ctx)
	if err != nil {
		return err
	}
	byLang, err := store.CountByLanguage(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("index: %d records\n", n)
	langs := make([]string, 0, len(byLang))
	for l := range byLang {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	for _, l := range langs {
		fmt.Printf("  %-8s %d\n", l, byLang[l])
	}
	if n != corpusCount {
		fmt.Printf("⚠️  index holds %d records but the corpus holds %d\n", n, corpusCount)
	}
	return nil
}

func mean(xs []int) float64 {
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

func median(xs []int) int {
	s := append([]int(nil), xs...)
	sort.Ints(s)
	return s[len(s)/2]
}
