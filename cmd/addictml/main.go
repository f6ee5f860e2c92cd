// addictml trains and serves the social media addiction score model.
//
// Usage:
//
//	addictml train --config config.yaml
//	addictml predict --age 20 --gender Female --usage 4.5 ...
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/socialpulse/addictml/pkg/log"
)

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "addictml",
		Short: "Train and serve the social media addiction score model",
		Long: `addictml fits five candidate regressors on a student survey dataset,
selects the best by held-out R², and serves clamped addiction scores
from the persisted winner.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := log.ValidateLevel(logLevel); err != nil {
				return err
			}
			log.SetupLogger(logLevel)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", log.ErrAttr(err))
		os.Exit(1)
	}
}
