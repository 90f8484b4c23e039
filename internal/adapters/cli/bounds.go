package cli

import (
	"github.com/spf13/cobra"
)

var boundsCmd = &cobra.Command{
	Use:   "bounds [code]",
	Short: "Print the cell named by a DIGIPIN or a code prefix",
	Long: `Prints the bounding box of the cell named by a full DIGIPIN or by a
prefix of 1 to 10 symbols. Shorter prefixes name larger cells.`,
	Args: cobra.ExactArgs(1),
	RunE: runBounds,
}

func init() {
	rootCmd.AddCommand(boundsCmd)
}

func runBounds(cmd *cobra.Command, args []string) error {
	b, err := codec.Bounds(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, b)
	}
	cmd.Printf("lat: %.6f .. %.6f\n", b.MinLat, b.MaxLat)
	cmd.Printf("lon: %.6f .. %.6f\n", b.MinLon, b.MaxLon)
	return nil
}
