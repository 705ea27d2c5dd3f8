package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/at-ishikawa/ortografia/internal/answerlog"
)

// PeriodStatistics holds answer counts for one month.
type PeriodStatistics struct {
	Period          string // "2025-01"
	AnswersCount    int
	CorrectCount    int
	QuestionsUnique int // Distinct questions answered in the period
	NewQuestions    int // Questions answered for the first time
}

// AggregateStatistics holds totals across all periods with global unique counts
type AggregateStatistics struct {
	AnswersCount    int
	CorrectCount    int
	QuestionsUnique int
	NewQuestions    int
}

type StatisticsResult struct {
	Periods   []PeriodStatistics
	Aggregate AggregateStatistics
}

type periodData struct {
	answers   int
	correct   int
	questions map[string]struct{}
	newCount  int
}

// CalculateStatistics groups answers by month. year and month filter the
// periods (0 means no filter). A question counts as new in the month of its
// first answer, even when that answer falls outside the filter.
func CalculateStatistics(entries []answerlog.Entry, year, month int) StatisticsResult {
	sorted := make([]answerlog.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AnsweredAt.Before(sorted[j].AnsweredAt)
	})

	stats := make(map[string]*periodData)
	seen := make(map[string]struct{})
	globalQuestions := make(map[string]struct{})
	newQuestions := 0

	for _, entry := range sorted {
		if entry.AnsweredAt.IsZero() {
			continue
		}
		_, answeredBefore := seen[entry.QuestionID]
		seen[entry.QuestionID] = struct{}{}

		if !matchesFilter(entry.AnsweredAt.Year(), int(entry.AnsweredAt.Month()), year, month) {
			continue
		}

		period := entry.AnsweredAt.Format("2006-01")
		data := stats[period]
		if data == nil {
			data = &periodData{questions: make(map[string]struct{})}
			stats[period] = data
		}
		data.answers++
		if entry.Correct {
			data.correct++
		}
		data.questions[entry.QuestionID] = struct{}{}
		globalQuestions[entry.QuestionID] = struct{}{}
		if !answeredBefore {
			data.newCount++
			newQuestions++
		}
	}

	periods := make([]PeriodStatistics, 0, len(stats))
	var aggregate AggregateStatistics
	for period, data := range stats {
		periods = append(periods, PeriodStatistics{
			Period:          period,
			AnswersCount:    data.answers,
			CorrectCount:    data.correct,
			QuestionsUnique: len(data.questions),
			NewQuestions:    data.newCount,
		})
		aggregate.AnswersCount += data.answers
		aggregate.CorrectCount += data.correct
	}
	aggregate.QuestionsUnique = len(globalQuestions)
	aggregate.NewQuestions = newQuestions

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return StatisticsResult{Periods: periods, Aggregate: aggregate}
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}

// WriteStatistics prints the monthly history with totals.
func WriteStatistics(w io.Writer, result StatisticsResult) error {
	if len(result.Periods) == 0 {
		_, err := fmt.Fprintln(w, "No answers found for the specified period.")
		return err
	}

	_, _ = fmt.Fprintln(w, "Answer History Report")
	_, _ = fmt.Fprintln(w, "=====================")
	_, _ = fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "Period\tAnswers (Correct)\tAccuracy\tQuestions (New)")
	_, _ = fmt.Fprintln(tw, "------\t-----------------\t--------\t---------------")
	for _, s := range result.Periods {
		_, _ = fmt.Fprintf(tw, "%s\t%d (%d)\t%s\t%d (%d)\n",
			s.Period, s.AnswersCount, s.CorrectCount, accuracy(s.CorrectCount, s.AnswersCount), s.QuestionsUnique, s.NewQuestions)
	}
	a := result.Aggregate
	_, _ = fmt.Fprintf(tw, "Totals:\t%d (%d)\t%s\t%d (%d)\n",
		a.AnswersCount, a.CorrectCount, accuracy(a.CorrectCount, a.AnswersCount), a.QuestionsUnique, a.NewQuestions)
	return tw.Flush()
}

func accuracy(correct, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(correct)*100/float64(total))
}
