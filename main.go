package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"airbnb-cleaner/config"
	"airbnb-cleaner/utils"
)

var (
	version = "dev"

	envFile  string
	logLevel string

	cfg    *config.Config
	logger *utils.Logger

	rootCmd = &cobra.Command{
		Use:   "airbnb-cleaner",
		Short: "Clean Inside Airbnb listings exports",
		Long: `airbnb-cleaner loads an Inside Airbnb listings.csv, derives room and
rating attributes from listing titles, imputes the gaps, and saves the result
as CSV, XLSX or a PostgreSQL table.`,
		PersistentPreRunE: initApp,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(cleanCmd())
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		if logger != nil {
			logger.Warn("Received interrupt signal, shutting down...")
		}
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func initApp(cmd *cobra.Command, _ []string) error {
	cfg = config.Load(envFile)
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger = utils.NewLogger(cfg.LogLevel)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "airbnb-cleaner %s\n", version)
		},
	}
}
