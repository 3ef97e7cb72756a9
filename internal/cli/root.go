// Package cli implements the memsift CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/memsift/internal/archive"
	"github.com/rcliao/memsift/internal/observe"
	"github.com/rcliao/memsift/internal/store"
)

var (
	dbPath     string
	formatFlag string
	verbose    bool
	maxRecords int
	threshold  float64
	sizeFloor  int
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "memsift",
	Short: "Bounded, importance-scored memory for AI agents",
	Long:  "A tiny CLI that reduces text before storing it and evicts what stops mattering. Text in, text out. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MEMSIFT_DB or ~/.memsift/memsift.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	RootCmd.PersistentFlags().IntVar(&maxRecords, "max-records", 0, "Store capacity (default 1000 or $MEMSIFT_MAX_RECORDS)")
	RootCmd.PersistentFlags().Float64Var(&threshold, "threshold", 0, "Importance floor protected from eviction (default 0.5)")
	RootCmd.PersistentFlags().IntVar(&sizeFloor, "size-floor", 0, "Reduction size floor in chars (default 500)")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("MEMSIFT_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".memsift", "memsift.db")
}

func storeConfig() store.Config {
	cfg := store.Config{
		MaxRecords:           maxRecords,
		ImportanceThreshold:  threshold,
		CompressionSizeFloor: sizeFloor,
	}
	if cfg.MaxRecords <= 0 {
		if env := os.Getenv("MEMSIFT_MAX_RECORDS"); env != "" {
			if n, err := strconv.Atoi(env); err == nil {
				cfg.MaxRecords = n
			}
		}
	}
	return cfg
}

// newObserver builds the logger for one command invocation. Logs go to
// stderr so stdout stays clean for command output.
func newObserver() *observe.Observer {
	if formatFlag == "json" {
		return observe.NewJSON(os.Stderr, verbose)
	}
	return observe.New(os.Stderr, verbose)
}

// session ties one command invocation to the archive-backed store.
type session struct {
	store *store.Store
	arc   *archive.SQLite
	obs   *observe.Observer
}

// openSession hydrates the in-memory store from the archive. Every command
// works against the hydrated store; mutating commands call save before
// closing.
func openSession(cmd *cobra.Command) *session {
	obs := newObserver()

	arc, err := archive.Open(getDBPath())
	if err != nil {
		exitErr("open archive", err)
	}
	recs, evicted, err := arc.Load(cmd.Context())
	if err != nil {
		arc.Close()
		exitErr("load archive", err)
	}

	st := store.New(storeConfig())
	st.Restore(recs, evicted)
	obs.Log().Info().Int("records", st.Len()).Msg("session loaded")

	return &session{store: st, arc: arc, obs: obs}
}

func (s *session) save(cmd *cobra.Command) {
	recs, evicted := s.store.Snapshot()
	if err := s.arc.Save(cmd.Context(), recs, evicted); err != nil {
		exitErr("save archive", err)
	}
}

func (s *session) Close() {
	s.arc.Close()
	s.obs.Close()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
