package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"changelog-lint/internal/analyzer"
	"changelog-lint/internal/changelog"
	"changelog-lint/internal/locator"
	"changelog-lint/internal/natspub"
	"changelog-lint/internal/report"
)

// Exit codes: 0 no breaking changes, 1 breaking changes found, 2 the run
// itself failed.
const (
	exitClean    = 0
	exitBreaking = 1
	exitError    = 2
)

func main() {
	// Setup logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)

	var configPath string
	exitCode := exitClean

	rootCmd := &cobra.Command{
		Use:   "changelog-lint [flags] <changelog.xml> [changelog.xml ...]",
		Short: "Flags schema changes that can break a rolling deployment",
		Long: "changelog-lint inspects database migration changelog files and reports\n" +
			"structural changes (table and column drops, retrofitted NOT NULL\n" +
			"constraints) that can break service instances still running during a\n" +
			"rolling deployment.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			breaking, err := run(configPath, args, logger)
			if err != nil {
				return err
			}
			if breaking > 0 {
				exitCode = exitBreaking
			}
			return nil
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("changelog-lint failed: %v", err)
		os.Exit(exitError)
	}
	os.Exit(exitCode)
}

// run executes the pipeline and returns the number of breaking changes
// reported.
func run(configPath string, files []string, logger *logrus.Logger) (int, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return 0, err
	}

	// Set log level from config
	if level, err := logrus.ParseLevel(config.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	// The changelog parser carries database settings it never uses for a
	// connection; reject malformed ones up front.
	if err := NewDatabasePreflight(config.Database, logger).Check(); err != nil {
		return 0, err
	}

	var policy *analyzer.Policy
	if config.Policy.Script != "" {
		policy, err = analyzer.NewPolicy(config.Policy.Script, logger)
		if err != nil {
			return 0, err
		}
	}

	var publisher *natspub.Publisher
	if config.NATS.URL != "" {
		publisher, err = natspub.NewPublisher(
			config.NATS.URL,
			config.NATS.Subject,
			config.NATS.MaxReconnect,
			config.NATS.ReconnectWait,
			logger,
		)
		if err != nil {
			return 0, err
		}
		defer publisher.Close()
	}

	a := analyzer.New(changelog.NewParser(logger), locator.New(logger), policy, logger)
	reports, err := a.Run(files)
	if err != nil {
		return 0, err
	}

	console := report.NewConsole(os.Stdout)
	breaking := 0
	for _, rep := range reports {
		if !rep.Breaking {
			continue
		}
		breaking++
		if err := console.Report(rep); err != nil {
			return breaking, err
		}
		if publisher != nil {
			if err := publisher.Publish(rep); err != nil {
				return breaking, err
			}
		}
	}

	if breaking > 0 {
		logger.Warnf("Found %d breaking changes across %d files", breaking, len(files))
	} else {
		logger.Infof("No breaking changes found in %d files", len(files))
	}
	return breaking, nil
}
