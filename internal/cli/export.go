package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/memsift/internal/archive"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records as JSONL",
		Long:  "Export records as newline-delimited JSON to stdout, one record per line.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	s := openSession(cmd)
	defer s.Close()

	recs, _ := s.store.Snapshot()
	if err := archive.WriteJSONL(os.Stdout, recs); err != nil {
		exitErr("export", err)
	}
}
