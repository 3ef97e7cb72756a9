package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s := openSession(cmd)
	defer s.Close()

	stats := s.store.Stats()

	b, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(b))
}
