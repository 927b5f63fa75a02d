package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hireline/timeline/internal/models"
	"github.com/hireline/timeline/internal/source"
	"github.com/hireline/timeline/internal/timeline"
)

// now is the evaluation time for filters and stats; tests pin it.
var now = time.Now

type eventsResult struct {
	Events  []models.Event `json:"events"`
	Total   int            `json:"total"`
	HasMore bool           `json:"has_more"`
}

func newEventsCmd() *cobra.Command {
	var (
		search, category, eventType, timeRange string
		limit, offset                          int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List timeline events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := models.FilterState{
				SearchTerm: search,
				Category:   category,
				Type:       eventType,
				TimeRange:  models.TimeRange(timeRange),
			}.Normalized()
			if err := f.Validate(); err != nil {
				return err
			}
			if limit < 0 || offset < 0 {
				return fmt.Errorf("--limit and --offset must not be negative")
			}

			events, err := loadEvents(cmd.Context())
			if err != nil {
				return err
			}

			filtered := timeline.Apply(events, f, now())
			page, hasMore := timeline.Paginate(filtered, limit, offset)
			printEvents(eventsResult{Events: page, Total: len(filtered), HasMore: hasMore})
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text search")
	cmd.Flags().StringVar(&category, "category", models.FilterAll, "Category filter")
	cmd.Flags().StringVar(&eventType, "type", models.FilterAll, "Event type filter")
	cmd.Flags().StringVar(&timeRange, "range", string(models.Range24h), "Time range: 1h|24h|7d|30d|all")
	cmd.Flags().IntVar(&limit, "limit", 50, "Max events to print (0 for all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Events to skip")
	return cmd
}

// loadEvents fetches the three collections and builds the merged timeline.
func loadEvents(ctx context.Context) ([]models.Event, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	set, err := source.NewRESTSource(apiClient, cliLogger()).Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return timeline.Build(set), nil
}

func printEvents(res eventsResult) {
	switch flagFmt {
	case "quiet":
		for _, e := range res.Events {
			formatQuiet(e.ID)
		}
	case "table":
		rows := make([][]string, 0, len(res.Events))
		for _, e := range res.Events {
			rows = append(rows, []string{
				e.Timestamp.UTC().Format(time.RFC3339),
				string(e.Type),
				string(e.Severity),
				e.Actor,
				truncate(e.Description, 60),
			})
		}
		formatTable([]string{"TIME", "TYPE", "SEVERITY", "ACTOR", "DESCRIPTION"}, rows)
	default:
		formatJSON(res)
	}
}
