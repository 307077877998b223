package cmd

import (
	"fmt"

	"rental-admin/config"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down [steps]]",
	Short: "Apply or roll back database migrations",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		direction := "up"
		if len(args) > 0 {
			direction = args[0]
		}

		switch direction {
		case "up":
			return config.RunMigrations(cfg, log)
		case "down":
			steps := 1
			if len(args) == 2 {
				n, err := cast.ToIntE(args[1])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid step count %q", args[1])
				}
				steps = n
			}
			return config.RollbackMigrations(cfg, steps, log)
		}
		return fmt.Errorf("unknown direction %q, expected up or down", direction)
	},
}
