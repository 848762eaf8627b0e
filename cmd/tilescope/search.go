package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"tilescope/internal/config"
	"tilescope/internal/index"
	"tilescope/internal/log"
	"tilescope/internal/ui/services/search"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Rank the dataset against a query and print the results",
	Long: `Search runs one query through the same two tiers as the search box:
up to five viruses followed by up to eight proteins, best match first.
Use --light-only to skip fetching the protein search index.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("light-only", false, "match viruses only")

	rootCmd.AddCommand(searchCmd)
}

// searchRow is one printed result
type searchRow struct {
	Tier  string  `json:"tier"`
	Route string  `json:"route"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		log.SetOutput(io.Discard)
	}

	query := strings.Join(args, " ")
	lightOnly, _ := cmd.Flags().GetBool("light-only")

	ranked, err := rankQuery(cmd.Context(), cfg, query, lightOnly)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(os.Stdout, toRows(ranked), jsonOutput)
}

// rankQuery loads the indexes the query needs and ranks it once
func rankQuery(ctx context.Context, cfg *config.Config, query string, lightOnly bool) (search.Ranked, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	settings := search.SettingsFromConfig(cfg.Search)
	client := newClient(cfg)

	light := index.NewLight(client, cfg.Data.LightIndex)
	if err := light.Load(ctx); err != nil {
		return search.Ranked{}, fmt.Errorf("light index: %w", err)
	}
	viruses, _ := light.Entries()
	virusIx := search.NewVirusIndex(viruses, settings.Threshold)

	if lightOnly || search.QueryLength(query) < settings.DeepMinChars {
		return search.Rank(query, virusIx, nil, settings), nil
	}

	proteins, err := index.NewDeep(client, cfg.Data.SearchIndex).Load(ctx)
	if err != nil {
		return search.Ranked{}, fmt.Errorf("search index: %w", err)
	}
	proteinIx := search.NewProteinIndex(proteins, settings.Threshold)
	return search.Rank(query, virusIx, proteinIx, settings), nil
}

func toRows(ranked search.Ranked) []searchRow {
	rows := make([]searchRow, 0, len(ranked.Viruses)+len(ranked.Proteins))
	for _, r := range ranked.Merged() {
		rows = append(rows, searchRow{
			Tier:  r.Entity.Kind().String(),
			Route: r.Entity.Route(),
			Name:  r.Entity.DisplayName(),
			Score: r.Score,
		})
	}
	return rows
}

func formatSearchOutput(w io.Writer, rows []searchRow, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	fmt.Fprintf(w, "%s  %s  %s  %s\n", fitColumn("Tier", 8), fitColumn("Route", 28), fitColumn("Name", 40), "Score")
	fmt.Fprintln(w, strings.Repeat("-", 88))

	for _, r := range rows {
		fmt.Fprintf(w, "%s  %s  %s  %.3f\n", fitColumn(r.Tier, 8), fitColumn(r.Route, 28), fitColumn(r.Name, 40), r.Score)
	}

	fmt.Fprintf(w, "\n%d results\n", len(rows))
	return nil
}

// fitColumn truncates s to width display columns and pads it to that width
func fitColumn(s string, width int) string {
	s = ansi.Truncate(s, width, "...")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
