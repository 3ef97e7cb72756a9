package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/memsift/internal/model"
	"github.com/rcliao/memsift/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search records by keyword",
		Long:  "Search reduced text and entities for matching tokens, ranked by overlap and importance.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().StringP("type", "t", "", "Filter by content type")
	cmd.Flags().IntP("limit", "l", 0, "Max results (default 5)")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	typeStr, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s := openSession(cmd)
	defer s.Close()

	_, span := s.obs.StartSpan(cmd.Context(), "Search")
	results := s.store.Search(store.SearchParams{
		Query: query,
		Type:  model.ContentType(typeStr),
		Limit: limit,
	})
	span.End()

	s.obs.Log().Info().Int("results", len(results)).Msg("search finished")

	// access counts changed for returned records
	s.save(cmd)

	if len(results) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(b))
}
