package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/sartorproj/goseries/agent"
	"github.com/sartorproj/goseries/logger"
	"github.com/sartorproj/goseries/packet"
	"github.com/sartorproj/goseries/table"
)

var runFlags struct {
	agentConfig      string
	target           string
	pastCovariates   string
	futureCovariates string
	jsonOutput       bool
	logLevel         string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute an agent once and print the resulting packets",
	Long: `Run builds the agent described by --agent-config and executes it once.
With --target the CSV files are read into one packet (content plus the
optional covariates) as the web UI does; without it the agent starts from
an empty container, which suits agents beginning with a CSV loader.`,
	Args: cobra.NoArgs,
	RunE: runAgent,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.agentConfig, "agent-config", "a", "configs/time_series_arima.yml", "path to the agent configuration")
	f.StringVar(&runFlags.target, "target", "", "CSV file loaded into the content slot")
	f.StringVar(&runFlags.pastCovariates, "past-covariates", "", "CSV file loaded into the past_covariates slot")
	f.StringVar(&runFlags.futureCovariates, "future-covariates", "", "CSV file loaded into the future_covariates slot")
	f.BoolVar(&runFlags.jsonOutput, "json", false, "print the summary as JSON")
	f.StringVar(&runFlags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func runAgent(cmd *cobra.Command, _ []string) error {
	level, err := logger.ParseLevel(runFlags.logLevel)
	if err != nil {
		return err
	}
	log, err := logger.New(os.Stderr, level, "text", false)
	if err != nil {
		return err
	}

	a, err := agent.Load(runFlags.agentConfig, agent.DefaultRegistry(), log)
	if err != nil {
		return fmt.Errorf("load agent: %w", err)
	}

	c, err := inputContainer(runFlags.target, runFlags.pastCovariates, runFlags.futureCovariates)
	if err != nil {
		return err
	}

	out, err := a.Run(cmd.Context(), c)
	if err != nil {
		return err
	}

	summaries := summarize(out)
	if runFlags.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), summaries)
	}
	printSummary(cmd.OutOrStdout(), a.Name(), summaries)
	return nil
}

// inputContainer reads the given CSV files into one packet. An empty
// target yields an empty container.
func inputContainer(target, past, future string) (*packet.Container, error) {
	if target == "" {
		if past != "" || future != "" {
			return nil, fmt.Errorf("covariates require --target")
		}
		return packet.NewContainer(), nil
	}

	content, err := table.ReadCSVFile(target, nil)
	if err != nil {
		return nil, fmt.Errorf("read target: %w", err)
	}
	p := packet.New(packet.TableValue(content))
	p.Source = target

	for _, cov := range []struct {
		path string
		slot packet.Slot
	}{
		{past, packet.PastCovariates},
		{future, packet.FutureCovariates},
	} {
		if cov.path == "" {
			continue
		}
		tbl, err := table.ReadCSVFile(cov.path, nil)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", cov.slot, err)
		}
		if err := p.Set(cov.slot, packet.TableValue(tbl)); err != nil {
			return nil, err
		}
	}
	return packet.NewContainer(p), nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
