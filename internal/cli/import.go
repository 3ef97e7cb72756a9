package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/memsift/internal/archive"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import records from JSONL",
		Long:  "Import records from newline-delimited JSON on stdin. Records keep their IDs and scores; IDs already present are skipped.",
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	recs, err := archive.ReadJSONL(os.Stdin)
	if err != nil {
		exitErr("parse jsonl", err)
	}

	s := openSession(cmd)
	defer s.Close()

	existing, evicted := s.store.Snapshot()
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.ID] = true
	}

	merged := existing
	imported := 0
	for _, r := range recs {
		if r.ID == "" || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		merged = append(merged, r)
		imported++
	}

	s.store.Restore(merged, evicted)
	s.save(cmd)

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}
