package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"anchor/internal/platform/config"
	"anchor/internal/printer"
)

var baysLimit int

var baysCmd = &cobra.Command{
	Use:   "bays [bay]",
	Short: "Inspect failure bays",
	Long: `Without arguments, lists every bay and its record count. With a bay
name, dumps that bay's records as JSON for review tooling.`,
	Args: cobra.MaximumNArgs(1),
	RunE: showBays,
}

func init() {
	baysCmd.Flags().IntVar(&baysLimit, "limit", 100, "maximum records to dump")
	rootCmd.AddCommand(baysCmd)
}

func showBays(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return printer.Error("Invalid configuration", err.Error())
	}
	deps, err := openStores(ctx, cfg)
	if err != nil {
		return printer.Error("Could not open stores", err.Error())
	}
	defer deps.close()

	if len(args) == 1 {
		records, err := deps.bays.List(ctx, args[0], baysLimit)
		if err != nil {
			return printer.Error("Could not list bay", err.Error())
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return printer.Error("Could not encode records", err.Error())
		}
		return nil
	}

	names, err := deps.bays.Bays(ctx)
	if err != nil {
		return printer.Error("Could not list bays", err.Error())
	}
	if len(names) == 0 {
		printer.Success("all bays are empty\n")
		return nil
	}
	for _, name := range names {
		count, err := deps.bays.Count(ctx, name)
		if err != nil {
			return printer.Error("Could not count bay", err.Error())
		}
		printer.Printf("%-28s %d\n", name, count)
	}
	return nil
}
