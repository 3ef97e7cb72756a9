package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/rcliao/memsift/internal/model"
	"github.com/rcliao/memsift/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Ingest many records in one run",
		Long:  "Ingest many records in one run. Reads JSONL items from stdin, or files matched by --glob. A failing item never stops the rest.",
		Run:   runBatch,
	}

	cmd.Flags().StringArrayP("glob", "g", nil, "Glob pattern for files to ingest (repeatable, ** supported)")
	cmd.Flags().StringP("type", "t", "generic", "Content type for glob-mode files")

	RootCmd.AddCommand(cmd)
}

// batchOutcome is one position-aligned result line.
type batchOutcome struct {
	ID     string `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
	Source string `json:"source,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) {
	globs, _ := cmd.Flags().GetStringArray("glob")
	typeStr, _ := cmd.Flags().GetString("type")

	s := openSession(cmd)
	defer s.Close()

	_, span := s.obs.StartSpan(cmd.Context(), "Batch")
	var outcomes []batchOutcome
	if len(globs) > 0 {
		outcomes = batchGlobs(s, globs, model.ContentType(typeStr))
	} else {
		items, err := readBatchItems(os.Stdin)
		if err != nil {
			span.End()
			exitErr("parse batch", err)
		}
		for _, res := range s.store.IngestBatch(items) {
			out := batchOutcome{ID: res.ID}
			if res.Err != nil {
				out.Error = res.Err.Error()
			}
			outcomes = append(outcomes, out)
		}
	}
	span.End()

	stored := 0
	for _, o := range outcomes {
		if o.Error == "" {
			stored++
		}
	}
	s.obs.Log().Info().Int("items", len(outcomes)).Int("stored", stored).Msg("batch finished")
	s.save(cmd)

	b, _ := json.MarshalIndent(outcomes, "", "  ")
	fmt.Println(string(b))
}

func batchGlobs(s *session, patterns []string, t model.ContentType) []batchOutcome {
	var outcomes []batchOutcome
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			outcomes = append(outcomes, batchOutcome{Source: pattern, Error: err.Error()})
			continue
		}
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				outcomes = append(outcomes, batchOutcome{Source: path, Error: err.Error()})
				continue
			}
			rec, err := s.store.Ingest(store.IngestParams{Text: string(data), Type: t})
			if err != nil {
				outcomes = append(outcomes, batchOutcome{Source: path, Error: err.Error()})
				continue
			}
			outcomes = append(outcomes, batchOutcome{ID: rec.ID, Source: path})
		}
	}
	return outcomes
}

func readBatchItems(r io.Reader) ([]store.BatchItem, error) {
	dec := json.NewDecoder(r)
	var items []store.BatchItem
	for {
		var it store.BatchItem
		err := dec.Decode(&it)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
