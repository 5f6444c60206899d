package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/thekla/internal/core/ports/driving"
)

// ExampleConfig is run when no argument is given.
const ExampleConfig = "example/example.conf"

var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run [config-file|config-dir]",
	Short: "Cluster documents as described by run configs",
	Long: `Runs one config file, or every config file in a directory.
Sub-directories and editor swap files are skipped. Without an argument
the example config is run. A failing config does not stop the others.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runJSON, "json", false, "output run reports as JSON")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if runService == nil {
		return errors.New("run service not configured")
	}

	configs, err := collectConfigs(args)
	if err != nil {
		return err
	}

	reports, runErr := runService.RunAll(cmd.Context(), configs)
	if runJSON {
		if err := outputReportsJSON(cmd, reports); err != nil {
			return err
		}
	} else {
		outputReports(cmd, reports)
	}

	if runErr != nil {
		return fmt.Errorf("%d of %d configs failed: %w", len(configs)-len(reports), len(configs), runErr)
	}
	return nil
}

// collectConfigs resolves the command argument to config file paths.
func collectConfigs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{ExampleConfig}, nil
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if !info.IsDir() {
		return []string{args[0]}, nil
	}
	return configsInDir(args[0], nil)
}

// configsInDir lists the regular files of dir, sorted. Editor swap files and
// the paths in skip are left out.
func configsInDir(dir string, skip map[string]bool) ([]string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config directory: %w", err)
	}

	var configs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() || isSwapFile(path) || skip[path] {
			continue
		}
		configs = append(configs, path)
	}
	sort.Strings(configs)
	return configs, nil
}

func isSwapFile(path string) bool {
	return strings.HasSuffix(path, "swp")
}

func outputReports(cmd *cobra.Command, reports []*driving.RunReport) {
	for _, r := range reports {
		noise := 0
		if r.Clustering != nil {
			noise = len(r.Clustering.Noise)
		}
		cmd.Printf("%s: %d documents, %d clusters, %d noise (run %s)\n",
			r.Title, r.Documents, r.Clustering.Len(), noise, r.ID)
		if r.Clustering != nil {
			for _, c := range r.Clustering.Clusters {
				cmd.Printf("  %s\n", c.Name)
				for _, m := range c.Members {
					cmd.Printf("      %s\n", m)
				}
			}
		}
		if r.Exported > 0 {
			cmd.Printf("  exported %d semeval lines to %s\n", r.Exported, r.SemevalFile)
		}
		if r.ChartPath != "" {
			cmd.Printf("  chart: %s\n", r.ChartPath)
		}
	}
}

func outputReportsJSON(cmd *cobra.Command, reports []*driving.RunReport) error {
	if reports == nil {
		reports = []*driving.RunReport{}
	}
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal reports: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
