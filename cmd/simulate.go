// -- cmd/simulate.go --
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/lancet/internal/config"
	"github.com/xkilldash9x/lancet/internal/dom"
	"github.com/xkilldash9x/lancet/internal/observability"
)

var (
	simulateDocument string
	simulateScenario string
	simulateStress   int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Load an HTML document and run an event scenario against it.",
	Long: `Simulate parses an HTML document into a node tree, installs the
listeners and delegations described by a JSON scenario, replays the
scenario's events through the engine, and prints a JSON report of every
handler invocation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateDocument != "" {
			appConfig.SetSimulateDocumentPath(simulateDocument)
		}
		if simulateScenario != "" {
			appConfig.SetSimulateScenarioPath(simulateScenario)
		}
		if simulateStress > 0 {
			appConfig.SetSimulateStressWorkers(simulateStress)
		}
		return runSimulate(appConfig, observability.GetLogger(), cmd.OutOrStdout())
	},
}

func init() {
	simulateCmd.Flags().StringVarP(&simulateDocument, "document", "d", "", "HTML document to load")
	simulateCmd.Flags().StringVarP(&simulateScenario, "scenario", "s", "", "JSON scenario to run")
	simulateCmd.Flags().IntVar(&simulateStress, "stress", 0, "replay steps concurrently from N workers")
	rootCmd.AddCommand(simulateCmd)
}

// runSimulate is the testable body of the simulate command.
func runSimulate(cfg config.Interface, logger *zap.Logger, out io.Writer) error {
	sim := cfg.Simulate()
	if sim.DocumentPath == "" {
		return fmt.Errorf("no document given: set --document or simulate.document_path")
	}
	if sim.ScenarioPath == "" {
		return fmt.Errorf("no scenario given: set --scenario or simulate.scenario_path")
	}

	doc, err := dom.ParseFile(sim.DocumentPath)
	if err != nil {
		return err
	}
	scenario, err := LoadScenario(sim.ScenarioPath)
	if err != nil {
		return err
	}

	r := newRunner(doc, cfg.Engine(), logger)
	defer r.teardown()

	if err := r.install(scenario); err != nil {
		return err
	}

	// The document finished parsing before the scenario starts; relay the
	// native signal so "dom:loaded" observers run first.
	r.engine.DispatchNative(r.engine.Document(), "DOMContentLoaded", false)

	if err := r.run(scenario, sim.StressWorkers); err != nil {
		return err
	}

	report := r.report(sim.DocumentPath, len(scenario.Steps))
	logger.Info("simulation complete",
		zap.Int("steps", report.Steps),
		zap.Int("invocations", len(report.Invocations)))

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}
