package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-activities-api/internal/directory"
	"github.com/noah-isme/sma-activities-api/internal/models"
)

type filterOptions struct {
	file      string
	category  string
	search    string
	timeRange string
	day       string
}

func newFilterCmd() *cobra.Command {
	opts := filterOptions{}
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter a catalog file the way the directory does",
		Long: `Reads a catalog JSON object keyed by activity name (use "-" for stdin) and prints
the activities that survive the category, weekend, day and search filters.`,
		Example: `  activityctl filter --file activities.json --category sports
  activityctl filter --file activities.json --time-range weekend --search club`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(cmd.InOrStdin(), opts.file)
			if err != nil {
				return err
			}
			return runFilter(cmd.OutOrStdout(), catalog, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "catalog JSON file, or - for stdin")
	cmd.Flags().StringVar(&opts.category, "category", "", "all, sports, arts, academic, community or technology")
	cmd.Flags().StringVar(&opts.search, "search", "", "case-insensitive text search")
	cmd.Flags().StringVar(&opts.timeRange, "time-range", "", "morning, afternoon or weekend")
	cmd.Flags().StringVar(&opts.day, "day", "", "weekday, e.g. Monday")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func loadCatalog(stdin io.Reader, path string) (models.Catalog, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		r = f
	}
	var catalog models.Catalog
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return catalog, nil
}

func runFilter(out io.Writer, catalog models.Catalog, opts filterOptions) error {
	category, ok := directory.ParseCategory(opts.category)
	if !ok {
		return fmt.Errorf("unknown category %q", opts.category)
	}
	timeRange, ok := directory.ParseTimeRange(opts.timeRange)
	if !ok {
		return fmt.Errorf("unknown time range %q", opts.timeRange)
	}

	source := models.ActivityFilter{Day: opts.day}
	if window, ok := timeRange.Window(); ok {
		source.StartTime = window.Start
		source.EndTime = window.End
	}
	visible := directory.Filter(narrow(catalog, source), directory.Criteria{
		Category:    category,
		SearchQuery: opts.search,
		WeekendOnly: timeRange.Weekend(),
	})
	if len(visible) == 0 {
		_, err := fmt.Fprintln(out, "No activities found")
		return err
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Activity", "Category", "Schedule", "Spots Left", "Status"})
	table.SetAutoWrapText(false)
	for _, activity := range visible {
		view := directory.BuildViewModel(activity)
		table.Append([]string{
			activity.Name,
			view.CategoryInfo.Label,
			view.FormattedSchedule,
			strconv.Itoa(view.SpotsLeft) + "/" + strconv.Itoa(view.TotalSpots),
			string(view.CapacityStatus),
		})
	}
	table.Render()
	return nil
}

// narrow stands in for the database when reading a file. Activities without
// structured schedule data never match a day or time restriction.
func narrow(catalog models.Catalog, filter models.ActivityFilter) models.Catalog {
	if filter.IsZero() {
		return catalog
	}
	out := make(models.Catalog, 0, len(catalog))
	for _, activity := range catalog {
		details := activity.ScheduleDetails
		if details == nil {
			continue
		}
		if filter.Day != "" && !containsDay(details.Days, filter.Day) {
			continue
		}
		if filter.StartTime != "" && details.StartTime < filter.StartTime {
			continue
		}
		if filter.EndTime != "" && details.EndTime > filter.EndTime {
			continue
		}
		out = append(out, activity)
	}
	return out
}

func containsDay(days []string, day string) bool {
	day = strings.TrimSpace(day)
	for _, d := range days {
		if strings.EqualFold(d, day) {
			return true
		}
	}
	return false
}
