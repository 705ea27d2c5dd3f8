package answerlog

import (
	"context"
	"fmt"
	"io"
	"time"
)

type ImportResult struct {
	New     int
	Skipped int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
}

// Importer copies answers from a CSV log into the database.
type Importer struct {
	repo   Repository
	writer io.Writer
}

func NewImporter(repo Repository, writer io.Writer) *Importer {
	return &Importer{
		repo:   repo,
		writer: writer,
	}
}

// Import inserts entries that are not stored yet. An entry is identified
// by its question ID and answer time.
func (imp *Importer) Import(ctx context.Context, entries []Entry, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult
	var pending []*Entry
	seen := make(map[string]bool)
	for i := range entries {
		entry := &entries[i]
		key := entry.QuestionID + "@" + entry.AnsweredAt.UTC().Format(time.RFC3339Nano)
		if seen[key] {
			result.Skipped++
			continue
		}
		seen[key] = true

		existing, err := imp.repo.FindByQuestionAndAnsweredAt(ctx, entry.QuestionID, entry.AnsweredAt)
		if err != nil {
			return nil, fmt.Errorf("FindByQuestionAndAnsweredAt(%s) > %w", entry.QuestionID, err)
		}
		if existing != nil {
			_, _ = fmt.Fprintf(imp.writer, "  [SKIP]  %s at %s\n", entry.QuestionID, entry.AnsweredAt.Format("2006-01-02 15:04:05"))
			result.Skipped++
			continue
		}

		_, _ = fmt.Fprintf(imp.writer, "  [NEW]  %s at %s\n", entry.QuestionID, entry.AnsweredAt.Format("2006-01-02 15:04:05"))
		pending = append(pending, entry)
		result.New++
	}

	if opts.DryRun {
		return &result, nil
	}
	if err := imp.repo.BatchCreate(ctx, pending); err != nil {
		return nil, fmt.Errorf("BatchCreate() > %w", err)
	}
	return &result, nil
}
