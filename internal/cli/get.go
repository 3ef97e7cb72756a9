package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Retrieve a record by ID",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	s := openSession(cmd)
	defer s.Close()

	_, span := s.obs.StartSpan(cmd.Context(), "Get")
	rec, err := s.store.Get(args[0])
	span.End()
	if err != nil {
		exitErr("get", err)
	}

	// access count changed
	s.save(cmd)

	b, _ := json.MarshalIndent(rec, "", "  ")
	fmt.Println(string(b))
}
