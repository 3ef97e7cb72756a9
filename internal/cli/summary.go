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
		Use:   "summary [scope]",
		Short: "Summarize stored records",
		Long:  "Build a key-point summary over search results for the scope, or over the newest records when no scope is given.",
		Run:   runSummary,
	}

	cmd.Flags().StringP("type", "t", "", "Filter by content type")
	cmd.Flags().IntP("limit", "l", 0, "Records consulted (default 20)")
	cmd.Flags().IntP("budget", "b", 0, "Max chars of key points (default 2000)")

	RootCmd.AddCommand(cmd)
}

func runSummary(cmd *cobra.Command, args []string) {
	typeStr, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")
	budget, _ := cmd.Flags().GetInt("budget")

	s := openSession(cmd)
	defer s.Close()

	_, span := s.obs.StartSpan(cmd.Context(), "Summarize")
	sum := s.store.Summarize(store.SummarizeParams{
		Query:  strings.Join(args, " "),
		Type:   model.ContentType(typeStr),
		Limit:  limit,
		Budget: budget,
	})
	span.End()

	// scoped summaries retrieve records, which bumps access counts
	s.save(cmd)

	if formatFlag == "text" {
		fmt.Print(sum.Render())
		return
	}
	b, _ := json.MarshalIndent(sum, "", "  ")
	fmt.Println(string(b))
}
