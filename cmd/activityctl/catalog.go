package main

import (
	"github.com/spf13/cobra"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/activity/events"
)

type CatalogRow struct {
	EventKind   string `json:"event_kind"`
	Revision    uint32 `json:"revision"`
	SubjectKind string `json:"subject_kind"`
}

func catalogRows(reg *activity.Registry) []CatalogRow {
	decoders := reg.Decoders()
	rows := make([]CatalogRow, len(decoders))
	for i, d := range decoders {
		rows[i] = CatalogRow{
			EventKind:   string(d.Kind),
			Revision:    uint32(d.Revision),
			SubjectKind: string(d.Subject),
		}
	}
	return rows
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List every registered (event kind, revision) decoder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := events.NewRegistry()
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), output, catalogRows(reg))
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
