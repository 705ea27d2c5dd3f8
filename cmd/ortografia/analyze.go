package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/ortografia/internal/answerlog"
	"github.com/at-ishikawa/ortografia/internal/pdf"
	"github.com/at-ishikawa/ortografia/internal/report"
	"github.com/at-ishikawa/ortografia/internal/selection"
)

func newAnalyzeCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze progress and answer history",
	}
	command.AddCommand(newAnalyzeReportCommand())
	command.AddCommand(newAnalyzeHistoryCommand())
	return command
}

func newAnalyzeReportCommand() *cobra.Command {
	var depth int
	var markdownPath string
	var toPDF bool

	command := &cobra.Command{
		Use:   "report",
		Short: "Show the questions with the lowest scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if depth < 1 {
				return errors.New("--depth must be at least 1")
			}
			if !strings.HasSuffix(markdownPath, ".md") {
				return fmt.Errorf("--output must have .md extension: %s", markdownPath)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			engine, err := loadExistingEngine(cfg)
			if err != nil {
				return err
			}

			result, err := report.Build(engine, depth)
			if err != nil {
				return fmt.Errorf("report.Build() > %w", err)
			}
			out := cmd.OutOrStdout()
			if !toPDF && !cmd.Flags().Changed("output") {
				return report.WriteText(out, result)
			}

			if err := writeMarkdownReport(markdownPath, result); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "Markdown report saved to %s\n", markdownPath)
			if !toPDF {
				return nil
			}

			pdfPath, err := pdf.ConvertMarkdownToPDF(markdownPath)
			if err != nil {
				return fmt.Errorf("pdf.ConvertMarkdownToPDF(%s) > %w", markdownPath, err)
			}
			_, _ = fmt.Fprintf(out, "PDF report saved to %s\n", pdfPath)
			return nil
		},
	}

	command.Flags().IntVar(&depth, "depth", selection.DefaultScoreDepth, "Number of questions with the lowest scores to show")
	command.Flags().StringVarP(&markdownPath, "output", "o", "report.md", "Write the report as markdown to this file")
	command.Flags().BoolVar(&toPDF, "pdf", false, "Also convert the markdown report to PDF")
	return command
}

func writeMarkdownReport(path string, result report.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()
	if err := report.WriteMarkdown(file, result); err != nil {
		return fmt.Errorf("report.WriteMarkdown() > %w", err)
	}
	return nil
}

func newAnalyzeHistoryCommand() *cobra.Command {
	var year int
	var month int
	var fromDatabase bool

	command := &cobra.Command{
		Use:   "history",
		Short: "Show answer counts per period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return errors.New("--month requires --year to be specified")
			}
			if month < 0 || month > 12 {
				return errors.New("--month must be between 1 and 12")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var entries []answerlog.Entry
			if fromDatabase {
				db, err := openDatabase(cfg)
				if err != nil {
					return err
				}
				defer func() {
					_ = db.Close()
				}()
				entries, err = answerlog.NewDBRepository(db).FindAll(cmd.Context())
				if err != nil {
					return fmt.Errorf("answerlog.DBRepository.FindAll() > %w", err)
				}
			} else {
				entries, err = answerlog.ReadCSV(cfg.AnswerLog.CSVFile)
				if err != nil {
					return fmt.Errorf("answerlog.ReadCSV() > %w", err)
				}
			}

			result := report.CalculateStatistics(entries, year, month)
			return report.WriteStatistics(cmd.OutOrStdout(), result)
		},
	}

	command.Flags().IntVar(&year, "year", 0, "Filter by year")
	command.Flags().IntVar(&month, "month", 0, "Filter by month (requires --year)")
	command.Flags().BoolVar(&fromDatabase, "from-db", false, "Read answers from the database instead of the CSV file")
	return command
}
