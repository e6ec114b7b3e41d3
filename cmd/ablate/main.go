package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"goablate/adapters/engine"
	"goablate/adapters/excel"
	"goablate/internal"
	"goablate/internal/analysis"
	"goablate/internal/config"
	"goablate/internal/manuscript"
	"goablate/internal/phenotype"
	"goablate/internal/runner"
	"goablate/internal/testkit"
	"goablate/ports"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "ablate",
		Short: "Ablation experiment runner and statistics pipeline for digital-life research",
	}

	rootCmd.AddCommand(
		newRunCmd(cfg),
		newSweepCmd(cfg),
		newStatsCmd(cfg),
		newFeasibilityCmd(cfg),
		newInvarianceCmd(cfg),
		newMidrunCmd(cfg),
		newPathwaysCmd(cfg),
		newPhenotypeCmd(cfg),
		newCheckCmd(cfg),
		newExportCmd(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printJSON writes the machine-readable report to stdout; everything else
// in the toolkit writes to stderr.
func printJSON(v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(payload))
	return nil
}

func newEngine(cfg *config.Config, synthetic bool, binary string) ports.Engine {
	if synthetic {
		return testkit.NewSyntheticEngine()
	}
	if binary == "" {
		binary = cfg.Engine.Binary
	}
	return engine.NewProcessEngine(binary)
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	var outDir, engineBin string
	var jobs int
	var synthetic bool

	names := make([]string, 0, len(runner.Specs))
	for name := range runner.Specs {
		names = append(names, name)
	}
	sort.Strings(names)

	cmd := &cobra.Command{
		Use:   "run [experiment]",
		Short: "Run an experiment protocol against the simulation engine",
		Long: fmt.Sprintf(`Run one of the predefined experiment protocols: %v.

Sample data streams to stdout as TSV; progress goes to stderr. Raw JSON
results and the run manifest land in the output directory.`, names),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specFn, ok := runner.Specs[args[0]]
			if !ok {
				return fmt.Errorf("unknown experiment %q (have %v)", args[0], names)
			}
			r := runner.New(newEngine(cfg, synthetic, engineBin), outDir)
			r.Jobs = jobs
			return r.RunExperiment(context.Background(), specFn())
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", cfg.Paths.ExperimentsDir, "directory for result files and manifests")
	cmd.Flags().StringVar(&engineBin, "engine-bin", "", "simulation engine binary (default from ENGINE_BIN)")
	cmd.Flags().IntVar(&jobs, "jobs", 1, "concurrent engine runs per condition")
	cmd.Flags().BoolVar(&synthetic, "synthetic", false, "use the deterministic synthetic engine")
	return cmd
}

func newSweepCmd(cfg *config.Config) *cobra.Command {
	var outDir, engineBin string
	var jobs int
	var synthetic bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the viability-threshold sensitivity sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := runner.New(newEngine(cfg, synthetic, engineBin), outDir)
			r.Jobs = jobs
			report, err := r.RunThresholdSweep(context.Background(), runner.ThresholdGrid)
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", cfg.Paths.ExperimentsDir, "directory for the sweep report")
	cmd.Flags().StringVar(&engineBin, "engine-bin", "", "simulation engine binary (default from ENGINE_BIN)")
	cmd.Flags().IntVar(&jobs, "jobs", 1, "concurrent engine runs")
	cmd.Flags().BoolVar(&synthetic, "synthetic", false, "use the deterministic synthetic engine")
	return cmd
}

func newStatsCmd(cfg *config.Config) *cobra.Command {
	var alpha float64

	cmd := &cobra.Command{
		Use:   "stats [prefix]",
		Short: "Compute corrected ablation statistics against the normal baseline",
		Long: `Compute Mann-Whitney U tests, Cohen's d effect sizes and Holm-Bonferroni
corrected p-values for each ablation condition vs the normal baseline.

The prefix (default experiments/final_graph) locates files named
{prefix}_{condition}.json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := filepath.Join(cfg.Paths.ExperimentsDir, "final_graph")
			if len(args) == 1 {
				prefix = args[0]
			}
			report, err := analysis.AnalyzeAblations(prefix, analysis.AblationOptions{Alpha: alpha})
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
	cmd.Flags().Float64Var(&alpha, "alpha", cfg.Analysis.Alpha, "family-wise significance level")
	return cmd
}

func newFeasibilityCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feasibility [prefix]",
		Short: "Evaluate the 1000-step go/no-go gate",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := filepath.Join(cfg.Paths.ExperimentsDir, "1000step")
			if len(args) == 1 {
				prefix = args[0]
			}
			report, err := analysis.AssessFeasibility(prefix)
			if err != nil {
				return err
			}
			for _, check := range report.Checks {
				status := "FAIL"
				if check.Passed {
					status = "PASS"
				}
				internal.DefaultLogger.Progress("[%s] %s: %s", status, check.Name, check.Detail)
			}
			if err := printJSON(report); err != nil {
				return err
			}
			if !report.OK {
				os.Exit(1)
			}
			return nil
		},
	}
	return cmd
}

func newInvarianceCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invariance [experiment-dir]",
		Short: "Analyze implementation-invariance experiment outputs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := analysis.AnalyzeInvariance(dirArg(cfg, args))
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
	return cmd
}

func newMidrunCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "midrun [experiment-dir]",
		Short: "Analyze mid-run vs step-0 ablation outcomes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := analysis.AnalyzeMidrun(dirArg(cfg, args))
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
	return cmd
}

func newPathwaysCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pathways [experiment-dir]",
		Short: "Extract failure-pathway traces from ablation results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := analysis.AnalyzeFailurePathways(dirArg(cfg, args))
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
	return cmd
}

func newPhenotypeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phenotype [experiment-dir]",
		Short: "Cluster emergent phenotypes and measure temporal persistence",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := phenotype.Analyze(dirArg(cfg, args), internal.DefaultLogger)
			if err != nil {
				return err
			}
			if tp := report.TemporalPersistence; tp != nil {
				threshold := cfg.Analysis.PersistenceThreshold
				if phenotype.PersistenceClaimGate(tp.AdjustedRandIndex, threshold) {
					internal.DefaultLogger.Progress("Persistence claim supported (ARI %.4f >= %.2f)", tp.AdjustedRandIndex, threshold)
				} else {
					internal.DefaultLogger.Progress("Persistence claim NOT supported (ARI %.4f < %.2f)", tp.AdjustedRandIndex, threshold)
				}
			}
			return printJSON(report)
		},
	}
	return cmd
}

func newCheckCmd(cfg *config.Config) *cobra.Command {
	var paper, manifest, bindings string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check manuscript-reported parameters against manifest sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := manuscript.RunChecks(paper, manifest, bindings)
			if err != nil {
				return err
			}
			if err := printJSON(report); err != nil {
				return err
			}
			if !report.OK {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&paper, "paper", cfg.Paths.PaperFile, "manuscript source file")
	cmd.Flags().StringVar(&manifest, "manifest", cfg.Paths.ManifestFile, "experiment manifest file")
	cmd.Flags().StringVar(&bindings, "bindings", cfg.Paths.BindingsFile, "bindings registry file")
	return cmd
}

func newExportCmd(cfg *config.Config) *cobra.Command {
	var out string
	var alpha float64

	cmd := &cobra.Command{
		Use:   "export [prefix]",
		Short: "Export the ablation statistics table as an xlsx workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := filepath.Join(cfg.Paths.ExperimentsDir, "final_graph")
			if len(args) == 1 {
				prefix = args[0]
			}
			report, err := analysis.AnalyzeAblations(prefix, analysis.AblationOptions{Alpha: alpha})
			if err != nil {
				return err
			}
			if err := excel.WriteStatisticsWorkbook(out, report); err != nil {
				return err
			}
			internal.DefaultLogger.Progress("Workbook written: %s", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "ablation_statistics.xlsx", "output workbook path")
	cmd.Flags().Float64Var(&alpha, "alpha", cfg.Analysis.Alpha, "family-wise significance level")
	return cmd
}

func dirArg(cfg *config.Config, args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return cfg.Paths.ExperimentsDir
}
