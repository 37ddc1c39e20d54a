package commands

import (
	"fmt"
	"time"

	"pill-reminder/internal/bootstrap"
	"pill-reminder/internal/domain/prescriptions"

	"github.com/spf13/cobra"
)

var ScheduleCmd = &cobra.Command{
	Use:   "schedule <medicines.json|->",
	Short: "Expand a medicines list into timestamped takings",
	Long: `Lee {"medicines":[...]} o un array de medicamentos (archivo o "-" para stdin)
y genera las tomas a partir de --start (hoy por defecto).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		scheduler, err := bootstrap.Scheduler(cfg)
		if err != nil {
			return err
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		anchor := time.Now().In(loc)
		if start, _ := cmd.Flags().GetString("start"); start != "" {
			anchor, err = time.ParseInLocation("2006-01-02", start, loc)
			if err != nil {
				return fmt.Errorf("invalid --start (YYYY-MM-DD): %w", err)
			}
		}

		raw, err := readInput(cmd, args[0])
		if err != nil {
			return fmt.Errorf("read medicines: %w", err)
		}
		medicines, err := prescriptions.ParseMedicineList(raw)
		if err != nil {
			return err
		}

		takings := scheduler.Generate(medicines, anchor)
		return writeOutput(cmd, cmd.OutOrStdout(), map[string]any{"takings": takings})
	},
}

func init() {
	ScheduleCmd.Flags().String("start", "", "first day of the schedule (YYYY-MM-DD), default today")
}
