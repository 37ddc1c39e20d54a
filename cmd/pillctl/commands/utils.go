package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"pill-reminder/internal/platform/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// writeOutput serializa v según --output (json por defecto).
func writeOutput(cmd *cobra.Command, w io.Writer, v any) error {
	format, _ := cmd.Flags().GetString("output")

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (json, yaml)", format)
	}
}

// readInput lee un archivo o stdin si path es "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
