package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"perfumeshop/db"

	"github.com/spf13/cobra"
)

// NewBackupCommand creates the backup command. Cron runs it daily at 2 AM.
func NewBackupCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the database file into the backup directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "backups", "directory to write backups into")
	return cmd
}

func runBackup(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	src, err := os.Open(db.Path())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer src.Close()

	target := filepath.Join(dir, fmt.Sprintf("db_%s.sqlite", time.Now().Format("20060102")))
	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(target)
		return fmt.Errorf("copy database: %w", err)
	}

	log.Info().Str("target", target).Int64("bytes", written).Msg("backup written")
	return nil
}
