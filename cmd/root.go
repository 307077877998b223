package cmd

import (
	"fmt"
	"os"

	"rental-admin/config"
	"rental-admin/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log logger.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "rental-admin",
	Short: "Admin backend for the vehicle rental marketplace",
	Long: `rental-admin serves the admin dashboard API: authentication, generic
resource access, the verification board, user and company lists, dashboard
aggregates and realtime change feeds over WebSocket.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return err
		}
		log = logger.New("rental-admin", cfg.AppEnv, cfg.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}
