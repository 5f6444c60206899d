// Package cli provides the thekla command line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/thekla/internal/core/ports/driving"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	Quiet        bool
	Debug        bool
	LogFile      string
	LogFileLevel string
	CachePath    string
}

// Services are the driving ports the commands call into.
type Services struct {
	Run    driving.RunService
	Topics driving.TopicService

	// Close releases loggers and caches; may be nil.
	Close func() error
}

// Factory builds the services once the global flags are parsed.
type Factory func(opts GlobalOptions) (*Services, error)

var (
	globalOpts GlobalOptions
	factory    Factory

	runService   driving.RunService
	topicService driving.TopicService
	closeFn      func() error
)

var rootCmd = &cobra.Command{
	Use:   "thekla",
	Short: "Cluster documents by their topic-model centroids",
	Long: `thekla represents text documents by the topic distribution of their words
under an LDA topic model, clusters them, and visualises the cluster centroids.`,
	SilenceUsage: true,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeServices()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Quiet, "quiet", "q", false, "only log errors to the console")
	flags.BoolVar(&globalOpts.Debug, "debug", false, "log debug messages to the console")
	flags.StringVar(&globalOpts.LogFile, "log-file", "", "also write log messages to this file")
	flags.StringVar(&globalOpts.LogFileLevel, "log-file-level", "debug", "minimum level written to the log file")
	flags.StringVar(&globalOpts.CachePath, "cache", "", "sqlite file caching document centroids between invocations")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "debug")
}

// SetFactory registers how services are built from the global flags.
func SetFactory(f Factory) {
	factory = f
}

// SetRunService sets the run service directly, bypassing the factory.
func SetRunService(s driving.RunService) {
	runService = s
}

// SetTopicService sets the topic service directly, bypassing the factory.
func SetTopicService(s driving.TopicService) {
	topicService = s
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureServices builds the services on first use.
func ensureServices() error {
	if runService != nil && topicService != nil {
		return nil
	}
	if factory == nil {
		return errors.New("services not configured")
	}

	svc, err := factory(globalOpts)
	if err != nil {
		return err
	}
	if runService == nil {
		runService = svc.Run
	}
	if topicService == nil {
		topicService = svc.Topics
	}
	closeFn = svc.Close
	return nil
}

func closeServices() error {
	if closeFn == nil {
		return nil
	}
	err := closeFn()
	closeFn = nil
	return err
}
