package main

import (
	"github.com/spf13/cobra"

	"github.com/jward/tincture/internal/style"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every style tag the classifier can emit",
	Args:  cobra.NoArgs,
	RunE:  runTags,
}

func runTags(cmd *cobra.Command, args []string) error {
	all := style.All()
	tags := make([]CLITag, 0, len(all))
	for _, t := range all {
		tags = append(tags, CLITag{Name: t.String(), Marker: t.IsMarker()})
	}
	n := len(tags)
	return outputResult(cmd.OutOrStdout(), CLIResult{
		Command:    "tags",
		Results:    tags,
		TotalCount: &n,
	})
}
