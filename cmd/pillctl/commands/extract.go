package commands

import (
	"fmt"
	"os"

	"pill-reminder/internal/adapters/storage/memory"
	"pill-reminder/internal/bootstrap"
	"pill-reminder/internal/domain/prescriptions"

	"github.com/spf13/cobra"
)

var ExtractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Extract medicines from a prescription image and print the takings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := bootstrap.Logger(cfg, os.Stderr)

		data, err := readInput(cmd, args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		if int64(len(data)) > cfg.Upload.MaxBytes {
			return prescriptions.ErrImageTooLarge
		}

		completer, err := bootstrap.Completer(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		if completer == nil {
			return fmt.Errorf("inference api key not configured (INFERENCE_API_KEY)")
		}
		scheduler, err := bootstrap.Scheduler(cfg)
		if err != nil {
			return err
		}

		svc := prescriptions.NewService(
			memory.NewImageRepo(),
			prescriptions.NewInterpreter(completer, log),
			scheduler,
			prescriptions.ServiceOptions{Logger: log, MaxImageBytes: cfg.Upload.MaxBytes},
		)

		out := svc.ExtractPrescription(cmd.Context(), data, prescriptions.UploadMediaType(args[0], "", data))
		return writeOutput(cmd, cmd.OutOrStdout(), out)
	},
}
