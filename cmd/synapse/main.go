package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nithin-eashwar/synapse/internal/config"
	"github.com/nithin-eashwar/synapse/internal/logging"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "synapse",
	Short: "Synapse - a living knowledge graph for your codebase",
	Long: `Synapse parses a repository's source into a knowledge graph of
functions, classes, and their relationships, then layers risk, expertise,
and architectural-governance analysis on top of it.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		logCfg := logging.DebugConfig()
		if !verbose {
			logCfg = logging.DefaultConfig(false)
		}
		if err := logging.Initialize(logCfg); err != nil {
			logger.WithError(err).Warn("failed to initialize file logger, continuing with stdout only")
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("failed to load config, using defaults")
			cfg = config.Default()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .synapse/synapse.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`Synapse {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(blastRadiusCmd)
	rootCmd.AddCommand(expertCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(governanceCmd)
	rootCmd.AddCommand(mentorCmd)
}
