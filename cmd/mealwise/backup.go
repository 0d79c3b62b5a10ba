package mealwise

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/samy1995/Mealwise/internal/service"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy, check and restore the database on this device",
}

var (
	backupOut     string
	backupDir     string
	restoreLatest bool
	restoreForce  bool
)

func backupDirFor(db string) string {
	if backupDir != "" {
		return backupDir
	}
	return filepath.Join(filepath.Dir(db), "backups")
}

// backupStatus reports whether a backup still matches its checksum.
func backupStatus(info service.BackupInfo) string {
	if info.Checksum == "" {
		return "unverified"
	}
	if err := service.VerifyBackup(info.Path); err != nil {
		return "corrupt"
	}
	return "ok"
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Back up meals, profile and device values",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := resolveDBPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(db); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no database at %s yet; run `mealwise init` first", db)
		}
		out := backupOut
		if out == "" {
			out = filepath.Join(backupDirFor(db), service.BackupName(time.Now()))
		}
		info, err := service.CreateBackup(db, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backed up %s to %s (%d bytes, sha256 %s)\n", db, info.Path, info.SizeBytes, info.Checksum)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups with their checksum status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := resolveDBPath()
		if err != nil {
			return err
		}
		dir := backupDirFor(db)
		items, err := service.ListBackups(dir)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintf(w, "No backups in %s\n", dir)
			return nil
		}
		for _, it := range items {
			fmt.Fprintf(w, "%s  %-10s  %8d B  %s\n", it.CreatedAt.Local().Format("2006-01-02 15:04"), backupStatus(it), it.SizeBytes, it.Path)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [backup.db]",
	Short: "Replace the device database with a backup",
	Long: "Restores the given backup, or the newest intact one with --latest. " +
		"With --force the current database is backed up first and then replaced.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := resolveDBPath()
		if err != nil {
			return err
		}
		var from string
		switch {
		case len(args) == 1:
			from = args[0]
		case restoreLatest:
			items, err := service.ListBackups(backupDirFor(db))
			if err != nil {
				return err
			}
			for _, it := range items {
				if backupStatus(it) == "ok" {
					from = it.Path
					break
				}
			}
			if from == "" {
				return fmt.Errorf("no intact backup in %s", backupDirFor(db))
			}
		default:
			return fmt.Errorf("pass a backup file or --latest")
		}

		if _, err := os.Stat(db); err == nil && restoreForce {
			safety := filepath.Join(backupDirFor(db), "pre-restore-"+service.BackupName(time.Now()))
			if _, err := service.CreateBackup(db, safety); err != nil {
				return fmt.Errorf("back up current database: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved current database to %s\n", safety)
		}
		if err := service.RestoreBackup(from, db, restoreForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", db, from)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)

	backupCmd.PersistentFlags().StringVar(&backupDir, "dir", "", "Backup directory (default: backups/ next to the database)")
	backupCreateCmd.Flags().StringVar(&backupOut, "out", "", "Exact backup file path")
	backupRestoreCmd.Flags().BoolVar(&restoreLatest, "latest", false, "Restore the newest intact backup")
	backupRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Replace an existing database")
}
