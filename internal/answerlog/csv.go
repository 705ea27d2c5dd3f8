package answerlog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

var header = []string{"datetime", "epoch", "question_id", "given_answer", "is_correct", "session_id"}

// Rows written before session IDs existed carry no timezone.
const legacyTimeLayout = "2006-01-02T15:04:05.999999"

// CSVLogger appends entries to a CSV file.
type CSVLogger struct {
	path string
	mu   sync.Mutex
}

// NewCSVLogger creates the log file with a header row unless it already exists.
func NewCSVLogger(path string) (*CSVLogger, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(path), err)
		}
		if err := appendRows(path, header); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("os.Stat(%s) > %w", path, err)
	}
	return &CSVLogger{path: path}, nil
}

func (l *CSVLogger) Log(_ context.Context, entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return appendRows(l.path, []string{
		entry.AnsweredAt.Format(time.RFC3339Nano),
		strconv.Itoa(entry.Epoch),
		entry.QuestionID,
		entry.GivenAnswer,
		strconv.FormatBool(entry.Correct),
		entry.SessionID,
	})
}

func appendRows(path string, rows ...[]string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("os.OpenFile(%s) > %w", path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		_ = file.Close()
		return fmt.Errorf("writer.WriteAll() > %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close() > %w", err)
	}
	return nil
}

// ReadCSV parses a log written by CSVLogger. Files from before session IDs
// were recorded have five columns and yield entries without a SessionID.
func ReadCSV(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	entries, err := parseCSV(file)
	if err != nil {
		return nil, fmt.Errorf("parseCSV(%s) > %w", path, err)
	}
	return entries, nil
}

func parseCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var entries []Entry
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reader.Read() > %w", err)
		}
		if line == 1 && record[0] == header[0] {
			continue
		}

		entry, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
}

func parseRecord(record []string) (Entry, error) {
	if len(record) != len(header) && len(record) != len(header)-1 {
		return Entry{}, fmt.Errorf("expected %d columns, got %d", len(header), len(record))
	}

	answeredAt, err := time.Parse(time.RFC3339Nano, record[0])
	if err != nil {
		answeredAt, err = time.ParseInLocation(legacyTimeLayout, record[0], time.Local)
		if err != nil {
			return Entry{}, fmt.Errorf("time.Parse(%s) > %w", record[0], err)
		}
	}
	epoch, err := strconv.Atoi(record[1])
	if err != nil {
		return Entry{}, fmt.Errorf("strconv.Atoi(%s) > %w", record[1], err)
	}
	correct, err := strconv.ParseBool(record[4])
	if err != nil {
		return Entry{}, fmt.Errorf("strconv.ParseBool(%s) > %w", record[4], err)
	}

	entry := Entry{
		AnsweredAt:  answeredAt,
		Epoch:       epoch,
		QuestionID:  record[2],
		GivenAnswer: record[3],
		Correct:     correct,
	}
	if len(record) == len(header) {
		entry.SessionID = record[5]
	}
	return entry, nil
}
