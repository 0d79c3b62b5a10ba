package mealwise

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samy1995/Mealwise/internal/service"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
	importIn     string
	importDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your profile and meals (json or csv)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(exportOut) == "" {
			return fmt.Errorf("--out is required")
		}
		format := strings.ToLower(strings.TrimSpace(exportFormat))
		if format != "json" && format != "csv" {
			return fmt.Errorf("invalid --format %q (expected json or csv)", exportFormat)
		}
		return withApp(cmd, func(ctx context.Context, a *application) error {
			profile, err := a.signedIn(ctx)
			if err != nil {
				return err
			}
			data, err := service.ExportSnapshot(ctx, a.meals, a.profiles, profile.ID, a.now())
			if err != nil {
				return err
			}
			switch format {
			case "json":
				b, err := json.MarshalIndent(data, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal export json: %w", err)
				}
				if err := os.WriteFile(exportOut, b, 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
			case "csv":
				f, err := os.Create(exportOut)
				if err != nil {
					return fmt.Errorf("create export csv: %w", err)
				}
				defer f.Close()
				if err := service.WriteMealsCSV(f, data.Meals); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d meals to %s\n", len(data.Meals), exportOut)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import meals from a json export",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		b, err := os.ReadFile(importIn)
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		var data service.ExportData
		if err := json.Unmarshal(b, &data); err != nil {
			return fmt.Errorf("parse import json: %w", err)
		}
		return withApp(cmd, func(ctx context.Context, a *application) error {
			profile, err := a.signedIn(ctx)
			if err != nil {
				return err
			}
			report, err := service.ImportSnapshot(ctx, a.meals, profile.ID, &data, importDryRun)
			if err != nil {
				return err
			}
			prefix := "Imported"
			if report.DryRun {
				prefix = "Would import"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d meals (%d already present)\n", prefix, report.Imported, report.Skipped)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path")
	importCmd.Flags().StringVar(&importIn, "in", "", "Input json file path")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Report what would be imported")
}
