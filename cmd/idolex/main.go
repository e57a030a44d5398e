// Command idolex drives the lexicon-extraction pipeline: it loads
// configuration, wires up structured logging, and exposes the pipeline
// manager's run/status contract as cobra subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/komapc/ido-esperanto-extractor/internal/config"
	"github.com/komapc/ido-esperanto-extractor/internal/logging"
	"github.com/komapc/ido-esperanto-extractor/internal/pipeline"
)

var (
	configPath string
	cfg        *config.Config
	log        *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "idolex",
	Short: "Ido-Esperanto lexicon extraction pipeline",
	Long: `idolex builds an Ido-Esperanto bilingual lexicon from Wiktionary and
Wikipedia dumps, running the extraction stages as a resumable, cacheable
pipeline and reporting coverage, conflicts, and per-stage status.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			os.Setenv("CONFIG_PATH", configPath)
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("idolex: %w", err)
		}
		log, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("idolex: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

var (
	force     bool
	fromStage string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline, resuming from cached/completed stages",
	Long: `Executes every declared stage in order, skipping any stage whose
declared outputs are already complete and newer than its declared inputs
. --from-stage forces that stage and every stage declared
after it to rerun regardless of cache; --force reruns the whole pipeline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the per-stage status table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printStatus(cmd.Context())
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the statistics, coverage, and conflicts reports",
	Long: `Prints the text reports the "reports" stage last wrote under
pipeline.reports_dir. Run "idolex run" first if the reports directory is
empty or stale.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printReports()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (overrides CONFIG_PATH)")

	runCmd.Flags().BoolVar(&force, "force", false, "rerun every stage regardless of cache")
	runCmd.Flags().StringVar(&fromStage, "from-stage", "", "force this stage and every stage declared after it to rerun")

	rootCmd.AddCommand(runCmd, statusCmd, reportCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildManager() (*pipeline.Manager, func() error, error) {
	stages, closer, err := pipeline.Build(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("idolex: build pipeline: %w", err)
	}
	return pipeline.New(stages, cfg.Pipeline.StateFile, log), closer, nil
}

func runPipeline(ctx context.Context) error {
	mgr, closer, err := buildManager()
	if err != nil {
		return err
	}
	defer closer()

	opts := pipeline.RunOptions{Force: force, FromStage: fromStage}
	if err := mgr.Run(ctx, opts); err != nil {
		return fmt.Errorf("idolex: %w", err)
	}
	log.Info("pipeline run complete")
	return nil
}

func printStatus(ctx context.Context) error {
	mgr, closer, err := buildManager()
	if err != nil {
		return err
	}
	defer closer()

	states, err := mgr.Status(ctx)
	if err != nil {
		return fmt.Errorf("idolex: %w", err)
	}

	names := make([]string, 0, len(states))
	for name := range states {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		st := states[name]
		fmt.Printf("%-20s %s\n", name, st.Status)
		if st.Error != "" {
			fmt.Printf("%-20s   error: %s\n", "", st.Error)
		}
	}
	return nil
}

func printReports() error {
	for _, name := range []string{"stats.txt", "coverage.txt", "conflicts.txt"} {
		path := filepath.Join(cfg.Pipeline.ReportsDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("--- %s (not yet generated) ---\n\n", name)
			continue
		}
		fmt.Printf("--- %s ---\n", name)
		os.Stdout.Write(data)
		fmt.Println()
	}
	return nil
}
