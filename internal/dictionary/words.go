// Package dictionary loads word lists and turns them into quiz questions.
package dictionary

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/at-ishikawa/ortografia/internal/orthography"
	"github.com/at-ishikawa/ortografia/internal/selection"
)

// ReadWords reads one word per line. Blank lines and lines starting with "#"
// are skipped.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Err() > %w", err)
	}
	return words, nil
}

func LoadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	words, err := ReadWords(file)
	if err != nil {
		return nil, fmt.Errorf("ReadWords(%s) > %w", path, err)
	}
	return words, nil
}

// Source loads words from an http(s) URL or a local file.
func Source(ctx context.Context, fetcher *Fetcher, location string) ([]string, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return fetcher.Fetch(ctx, location)
	}
	return LoadFile(location)
}

type Result struct {
	Added   int
	Skipped int
	Invalid int
}

// AddWords registers a question for every placeholder of every word.
// Questions that are already tracked are skipped. When a different word
// produces the same ID, a numeric suffix is appended to the new question's ID.
func AddWords(
	engine *selection.Engine[orthography.Question],
	words []string,
	types []orthography.PlaceholderType,
) (Result, error) {
	var result Result
	for _, word := range words {
		questions, err := orthography.FromWord(word, types)
		if err != nil {
			slog.Default().Warn("skipping a word",
				slog.String("word", word),
				slog.Any("error", err),
			)
			result.Invalid++
			continue
		}

		for _, question := range questions {
			added, err := addQuestion(engine, question)
			if err != nil {
				return result, fmt.Errorf("addQuestion(%s) > %w", question.ID(), err)
			}
			if added {
				result.Added++
			} else {
				result.Skipped++
			}
		}
	}
	return result, nil
}

func addQuestion(engine *selection.Engine[orthography.Question], question orthography.Question) (bool, error) {
	for {
		err := engine.Add(question)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, selection.ErrDuplicateItem) {
			return false, err
		}

		existing, _ := engine.Item(question.ID())
		if existing.Problem.Equal(question) {
			return false, nil
		}
		question.IDSuffix = nextSuffix(question.IDSuffix)
	}
}

func nextSuffix(suffix string) string {
	if suffix == "" {
		return "1"
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return suffix + "1"
	}
	return strconv.Itoa(n + 1)
}
