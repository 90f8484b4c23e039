package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var encodeCompact bool

var encodeCmd = &cobra.Command{
	Use:   "encode [lat] [lon]",
	Short: "Encode a coordinate into a DIGIPIN",
	Long: `Encodes a latitude and longitude (decimal degrees, WGS 84) into the
DIGIPIN of the roughly 4m x 4m cell containing it. The point must lie within
latitude 6..38 and longitude 68..98.`,
	Args: cobra.ExactArgs(2),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().BoolVarP(&encodeCompact, "compact", "c", false, "print the code without hyphens")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid latitude %q", args[0])
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid longitude %q", args[1])
	}

	enc, err := codec.Encode(cmd.Context(), lat, lon)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, enc)
	}
	if encodeCompact {
		cmd.Println(enc.Compact)
		return nil
	}
	cmd.Println(enc.DIGIPIN)
	return nil
}
