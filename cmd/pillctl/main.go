package main

import (
	"fmt"
	"os"

	"pill-reminder/cmd/pillctl/commands"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pillctl",
	Short: "Pill reminder CLI",
	Long: `pillctl extrae medicamentos de la foto de una receta y genera la agenda
de tomas sin levantar el servidor HTTP. Usa la misma configuración que el API
(archivo --config, variables de entorno).`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(commands.ExtractCmd)
	rootCmd.AddCommand(commands.ScheduleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (yaml); también CONFIG_FILE")
	rootCmd.PersistentFlags().StringP("output", "o", "json", "Output format: json, yaml")
}
