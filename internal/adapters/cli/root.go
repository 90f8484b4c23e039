// Package cli implements the digipin command line tool.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samirrijal/digipin/internal/core/usecases"
)

var (
	version    = "dev"
	jsonOutput bool

	codec = usecases.NewCodecService(0)
)

var rootCmd = &cobra.Command{
	Use:   "digipin",
	Short: "Encode and decode DIGIPIN geocodes",
	Long: `digipin converts between WGS 84 coordinates inside India and the
10-symbol DIGIPIN codes of the national addressing grid.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
