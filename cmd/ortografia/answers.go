package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/ortografia/internal/answerlog"
)

func newAnswersCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "answers",
		Short: "Manage the answer log",
	}
	command.AddCommand(newAnswersImportDBCommand())
	command.AddCommand(newAnswersShowCommand())
	return command
}

func newAnswersImportDBCommand() *cobra.Command {
	var dryRun bool

	command := &cobra.Command{
		Use:   "import-db",
		Short: "Import answers from the CSV log into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.AnswerLog.CSVFile == "" {
				return errors.New("answer_log.csv_file is not configured")
			}

			entries, err := answerlog.ReadCSV(cfg.AnswerLog.CSVFile)
			if err != nil {
				return fmt.Errorf("answerlog.ReadCSV() > %w", err)
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			out := cmd.OutOrStdout()
			if dryRun {
				_, _ = fmt.Fprintln(out, "[DRY-RUN] No changes will be written to the database")
			}

			importer := answerlog.NewImporter(answerlog.NewDBRepository(db), out)
			result, err := importer.Import(cmd.Context(), entries, answerlog.ImportOptions{DryRun: dryRun})
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}

			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintln(out, "Import Summary:")
			_, _ = fmt.Fprintf(out, "  New:     %d\n", result.New)
			_, _ = fmt.Fprintf(out, "  Skipped: %d\n", result.Skipped)
			return nil
		},
	}

	command.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be imported without writing")
	return command
}

func newAnswersShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <question-id>",
		Short: "Show the stored answers of a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			entries, err := answerlog.NewDBRepository(db).FindByQuestion(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("answerlog.DBRepository.FindByQuestion() > %w", err)
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No answers found for %s.\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ANSWERED AT\tEPOCH\tANSWER\tCORRECT\tSESSION")
			for _, entry := range entries {
				_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%t\t%s\n",
					entry.AnsweredAt.Local().Format(time.DateTime),
					entry.Epoch,
					entry.GivenAnswer,
					entry.Correct,
					entry.SessionID,
				)
			}
			return w.Flush()
		},
	}
}
