// Package report summarizes learning progress.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/at-ishikawa/ortografia/internal/selection"
)

// Row describes one of the weakest items.
type Row struct {
	ID             string
	Label          string
	CorrectCount   int
	IncorrectCount int
	LastEpoch      int
	Score          float64
	Impact         selection.Impact
}

type Report struct {
	Epoch          int
	Items          int
	AggregateScore float64
	Correct        int
	Incorrect      int
	Rows           []Row
}

type labeler interface {
	CorrectWord() string
}

// Build lists the depth items with the lowest correctness score. The engine
// state and its jitter sequence are left untouched.
func Build[P selection.Problem](engine *selection.Engine[P], depth int) (Report, error) {
	correct, incorrect := engine.AnswerTotals()
	report := Report{
		Epoch:          engine.Epoch(),
		Items:          engine.Len(),
		AggregateScore: engine.AggregateScore(),
		Correct:        correct,
		Incorrect:      incorrect,
	}

	for _, item := range engine.KWorst(depth, false, false) {
		id := item.Problem.ID()
		impact, err := engine.WhatIf(id)
		if err != nil {
			return Report{}, fmt.Errorf("engine.WhatIf(%s) > %w", id, err)
		}

		label := id
		if l, ok := any(item.Problem).(labeler); ok {
			label = l.CorrectWord()
		}
		report.Rows = append(report.Rows, Row{
			ID:             id,
			Label:          label,
			CorrectCount:   item.CorrectCount,
			IncorrectCount: item.IncorrectCount,
			LastEpoch:      item.LastEpoch,
			Score:          item.CorrectnessScore(),
			Impact:         impact,
		})
	}
	return report, nil
}

// WriteText prints the report as an aligned table.
func WriteText(w io.Writer, r Report) error {
	bold := color.New(color.Bold)
	_, _ = fmt.Fprintf(w, "You have given %s answers (%s correct) to the set of total %s questions. Your current score is: %s.\n",
		bold.Sprint(r.Epoch),
		color.GreenString("%d", r.Correct),
		bold.Sprint(r.Items),
		bold.Sprintf("%.1f%%", r.AggregateScore*100),
	)
	if len(r.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No questions recorded yet.")
		return err
	}

	_, _ = fmt.Fprintf(w, "Record of %d worst questions:\n", len(r.Rows))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tWORD\tSCORE\tCORRECT\tINCORRECT\tLAST\tIF CORRECT\tIF INCORRECT")
	for _, row := range r.Rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t%d\t%d\t%d\t%+.2f%%\t%+.2f%%\n",
			row.ID, row.Label, row.Score*100,
			row.CorrectCount, row.IncorrectCount, row.LastEpoch,
			row.Impact.IfCorrect*100, row.Impact.IfIncorrect*100,
		)
	}
	return tw.Flush()
}

// WriteMarkdown renders the report as a markdown document.
func WriteMarkdown(w io.Writer, r Report) error {
	var b strings.Builder
	b.WriteString("# Progress report\n\n")
	fmt.Fprintf(&b, "- Answers: %d (%d correct, %d incorrect)\n", r.Epoch, r.Correct, r.Incorrect)
	fmt.Fprintf(&b, "- Questions: %d\n", r.Items)
	fmt.Fprintf(&b, "- Score: %.1f%%\n", r.AggregateScore*100)

	if len(r.Rows) > 0 {
		fmt.Fprintf(&b, "\n## %d worst questions\n\n", len(r.Rows))
		b.WriteString("| ID | Word | Score | Correct | Incorrect | If correct | If incorrect |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, row := range r.Rows {
			fmt.Fprintf(&b, "| %s | %s | %.1f%% | %d | %d | %+.2f%% | %+.2f%% |\n",
				escapeCell(row.ID), escapeCell(row.Label), row.Score*100,
				row.CorrectCount, row.IncorrectCount,
				row.Impact.IfCorrect*100, row.Impact.IfIncorrect*100,
			)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("io.WriteString() > %w", err)
	}
	return nil
}

// Masked IDs use "_", which markdown reads as emphasis.
func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "_", `\_`).Replace(s)
}
