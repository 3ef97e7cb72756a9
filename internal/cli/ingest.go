package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/memsift/internal/model"
	"github.com/rcliao/memsift/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ingest [text]",
		Short: "Reduce and store one record",
		Long:  "Reduce and store one record. Text can be a positional arg or piped via stdin.",
		Run:   runIngest,
	}

	cmd.Flags().StringP("type", "t", "generic", "Content type: conversation, code, error, solution, context, generic")
	cmd.Flags().StringArrayP("context", "c", nil, "Context key=value (repeatable)")

	RootCmd.AddCommand(cmd)
}

func runIngest(cmd *cobra.Command, args []string) {
	typeStr, _ := cmd.Flags().GetString("type")
	ctxPairs, _ := cmd.Flags().GetStringArray("context")

	text := readText(args)
	ctx, err := parseContext(ctxPairs)
	if err != nil {
		exitErr("ingest", err)
	}

	s := openSession(cmd)
	defer s.Close()

	_, span := s.obs.StartSpan(cmd.Context(), "Ingest")
	rec, err := s.store.Ingest(store.IngestParams{
		Text:    text,
		Type:    model.ContentType(typeStr),
		Context: ctx,
	})
	span.End()
	if err != nil {
		exitErr("ingest", err)
	}

	s.obs.Log().Info().Str("id", rec.ID).Str("type", string(rec.Type)).Msg("record stored")
	s.save(cmd)

	b, _ := json.Marshal(rec)
	fmt.Println(string(b))
}

// readText returns the positional text, or stdin when piped.
func readText(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		return string(b)
	}
	return ""
}

func parseContext(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	ctx := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid context pair %q (want key=value)", p)
		}
		ctx[k] = v
	}
	return ctx, nil
}
