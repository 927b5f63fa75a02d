package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hireline/timeline/internal/models"
	"github.com/hireline/timeline/internal/timeline"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show derived statistics over the whole timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadEvents(cmd.Context())
			if err != nil {
				return err
			}
			printStats(timeline.ComputeStats(events, now()))
			return nil
		},
	}
}

func printStats(s models.DerivedStats) {
	switch flagFmt {
	case "quiet":
		formatQuiet(strconv.Itoa(s.Total))
	case "table":
		rows := [][]string{
			{"total", "", strconv.Itoa(s.Total)},
			{"total", "last_24h", strconv.Itoa(s.Last24h)},
		}
		for _, c := range models.Categories {
			rows = append(rows, []string{"category", string(c), strconv.Itoa(s.ByCategory[c])})
		}
		for _, t := range models.EventTypes {
			rows = append(rows, []string{"type", string(t), strconv.Itoa(s.ByType[t])})
		}
		for _, sev := range models.Severities {
			rows = append(rows, []string{"severity", string(sev), strconv.Itoa(s.BySeverity[sev])})
		}
		for _, r := range models.TimeRanges {
			rows = append(rows, []string{"window", string(r), strconv.Itoa(s.ByWindow[r])})
		}
		formatTable([]string{"GROUP", "BUCKET", "COUNT"}, rows)
	default:
		formatJSON(s)
	}
}
