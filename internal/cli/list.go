package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/memsift/internal/model"
	"github.com/rcliao/memsift/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, newest first",
		Run:   runList,
	}

	cmd.Flags().StringP("type", "t", "", "Filter by content type")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("ids-only", false, "Only output record IDs")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	typeStr, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	s := openSession(cmd)
	defer s.Close()

	recs := s.store.List(store.ListParams{
		Type:  model.ContentType(typeStr),
		Limit: limit,
	})

	if idsOnly {
		for _, r := range recs {
			fmt.Println(r.ID)
		}
		return
	}

	if len(recs) == 0 {
		fmt.Println("[]")
		return
	}
	b, _ := json.MarshalIndent(recs, "", "  ")
	fmt.Println(string(b))
}
