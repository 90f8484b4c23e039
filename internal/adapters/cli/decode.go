package cli

import (
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [code]",
	Short: "Decode a DIGIPIN into the center of its cell",
	Long: `Decodes a DIGIPIN into the latitude and longitude of its cell center.
Hyphens are optional and letters may be lowercase.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	dec, err := codec.Decode(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, dec)
	}
	cmd.Printf("%.6f, %.6f\n", dec.Center.Lat, dec.Center.Lon)
	return nil
}
