package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// NewPruneLogsCommand creates the prune-logs command. Cron runs it weekly.
func NewPruneLogsCommand() *cobra.Command {
	var dir string
	var maxSize int64

	cmd := &cobra.Command{
		Use:   "prune-logs",
		Short: "Delete oversized log files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPruneLogs(dir, maxSize)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "logs", "directory to scan for log files")
	cmd.Flags().Int64Var(&maxSize, "max-size", 100*1024*1024, "delete .log files larger than this many bytes")
	return cmd
}

func runPruneLogs(dir string, maxSize int64) error {
	pruned := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".log") {
			return nil
		}
		if info.Size() <= maxSize {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Int64("bytes", info.Size()).Msg("pruned log file")
		pruned++
		return nil
	})
	if os.IsNotExist(err) {
		log.Info().Str("dir", dir).Msg("log directory does not exist, nothing to prune")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Int("pruned", pruned).Msg("log pruning completed")
	return nil
}
