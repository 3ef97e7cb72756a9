package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	s := openSession(cmd)
	defer s.Close()

	removed := s.store.Remove(args[0])
	if removed {
		s.save(cmd)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"removed":%t,"id":%q}`+"\n", removed, args[0])
}
