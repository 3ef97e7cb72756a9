package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/memsift/internal/model"
	"github.com/rcliao/memsift/internal/store"
	"github.com/rcliao/memsift/internal/think"
)

func init() {
	cmd := &cobra.Command{
		Use:   "think",
		Short: "Record a reasoning chain and print its synthesis",
		Long: `Read one thought per non-empty stdin line and print the synthesis.

Lines starting with ">>N " revise thought N. Lines starting with
">branch:id:N " open branch id from thought N; ">branch:id " continues it.`,
		Args: cobra.NoArgs,
		Run:  runThink,
	}

	cmd.Flags().Bool("capture", false, "Store the synthesis as a context record")

	RootCmd.AddCommand(cmd)
}

func runThink(cmd *cobra.Command, args []string) {
	chain := think.NewChain()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		p, err := parseThought(raw)
		if err != nil {
			exitErr(fmt.Sprintf("think line %d", line), err)
		}
		if _, err := chain.Add(p); err != nil {
			exitErr(fmt.Sprintf("think line %d", line), err)
		}
	}
	if err := scanner.Err(); err != nil {
		exitErr("read stdin", err)
	}

	synthesis := chain.Synthesis()
	fmt.Print(synthesis)

	capture, _ := cmd.Flags().GetBool("capture")
	if !capture {
		return
	}

	s := openSession(cmd)
	defer s.Close()

	_, span := s.obs.StartSpan(cmd.Context(), "Ingest")
	rec, err := s.store.Ingest(store.IngestParams{
		Text:    synthesis,
		Type:    model.Context,
		Context: map[string]string{"source": "think"},
	})
	span.End()
	if err != nil {
		exitErr("capture synthesis", err)
	}

	s.obs.Log().Info().Str("id", rec.ID).Msg("synthesis captured")
	s.save(cmd)
}

// parseThought maps one input line onto thought params. Plain lines are
// ordinary thoughts; the ">>" and ">branch:" prefixes carry structure.
func parseThought(line string) (think.ThoughtParams, error) {
	switch {
	case strings.HasPrefix(line, ">>"):
		rest := strings.TrimPrefix(line, ">>")
		numStr, text, ok := strings.Cut(rest, " ")
		if !ok || strings.TrimSpace(text) == "" {
			return think.ThoughtParams{}, fmt.Errorf("revision needs text after the thought number")
		}
		n, err := strconv.Atoi(numStr)
		if err != nil {
			return think.ThoughtParams{}, fmt.Errorf("bad revision target %q", numStr)
		}
		return think.ThoughtParams{Text: strings.TrimSpace(text), RevisesNumber: n}, nil

	case strings.HasPrefix(line, ">branch:"):
		rest := strings.TrimPrefix(line, ">branch:")
		header, text, ok := strings.Cut(rest, " ")
		if !ok || strings.TrimSpace(text) == "" {
			return think.ThoughtParams{}, fmt.Errorf("branch needs text after the header")
		}
		p := think.ThoughtParams{Text: strings.TrimSpace(text)}
		if id, fromStr, hasFrom := strings.Cut(header, ":"); hasFrom {
			n, err := strconv.Atoi(fromStr)
			if err != nil {
				return think.ThoughtParams{}, fmt.Errorf("bad branch origin %q", fromStr)
			}
			p.BranchID = id
			p.BranchFrom = n
		} else {
			p.BranchID = header
		}
		if p.BranchID == "" {
			return think.ThoughtParams{}, fmt.Errorf("branch needs an id")
		}
		return p, nil

	default:
		return think.ThoughtParams{Text: line}, nil
	}
}
