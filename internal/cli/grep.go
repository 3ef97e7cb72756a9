package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/memsift/internal/grep"
)

func init() {
	cmd := &cobra.Command{
		Use:   "grep <pattern> [path]",
		Short: "Search files with ripgrep",
		Long:  "Run ripgrep with structured flags. No matches prints nothing and exits zero.",
		Args:  cobra.RangeArgs(1, 2),
		Run:   runGrep,
	}

	cmd.Flags().String("mode", grep.ModeFiles, "Output mode: files_with_matches, content, count")
	cmd.Flags().IntP("before", "B", 0, "Lines before each match (content mode)")
	cmd.Flags().IntP("after", "A", 0, "Lines after each match (content mode)")
	cmd.Flags().IntP("context", "C", 0, "Lines around each match (content mode)")
	cmd.Flags().BoolP("line-numbers", "n", false, "Show line numbers (content mode)")
	cmd.Flags().BoolP("ignore-case", "i", false, "Case insensitive search")
	cmd.Flags().String("glob", "", "Filter files by glob")
	cmd.Flags().String("file-type", "", "Filter files by ripgrep type")
	cmd.Flags().Int("head-limit", 0, "Keep only the first N output lines")
	cmd.Flags().BoolP("multiline", "U", false, "Patterns may span lines")

	RootCmd.AddCommand(cmd)
}

func runGrep(cmd *cobra.Command, args []string) {
	p := grep.Params{Pattern: args[0]}
	if len(args) == 2 {
		p.Path = args[1]
	}
	p.Mode, _ = cmd.Flags().GetString("mode")
	p.Before, _ = cmd.Flags().GetInt("before")
	p.After, _ = cmd.Flags().GetInt("after")
	p.Context, _ = cmd.Flags().GetInt("context")
	p.LineNumbers, _ = cmd.Flags().GetBool("line-numbers")
	p.IgnoreCase, _ = cmd.Flags().GetBool("ignore-case")
	p.Glob, _ = cmd.Flags().GetString("glob")
	p.FileType, _ = cmd.Flags().GetString("file-type")
	p.HeadLimit, _ = cmd.Flags().GetInt("head-limit")
	p.Multiline, _ = cmd.Flags().GetBool("multiline")

	obs := newObserver()
	defer obs.Close()

	ctx, span := obs.StartSpan(cmd.Context(), "Grep")
	out, err := grep.Run(ctx, p)
	span.End()
	if err != nil {
		exitErr("grep", err)
	}

	if out != "" {
		fmt.Print(out)
	}
}
