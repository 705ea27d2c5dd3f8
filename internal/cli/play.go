package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/at-ishikawa/ortografia/internal/answerlog"
	"github.com/at-ishikawa/ortografia/internal/orthography"
	"github.com/at-ishikawa/ortografia/internal/selection"
)

var quitCommands = []string{"quit", "exit", ":q"}

// PlayCLI asks one question per session and saves the state before each one.
type PlayCLI struct {
	*InteractiveQuizCLI
	engine    *QuestionEngine
	statePath string
	logger    answerlog.Logger
	sessionID string
	now       func() time.Time

	last  *AnswerResponse
	delta float64
}

func NewPlayCLI(
	engine *QuestionEngine,
	statePath string,
	logger answerlog.Logger,
	stdin io.Reader,
	stdout io.Writer,
) *PlayCLI {
	return &PlayCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(stdin, stdout),
		engine:             engine,
		statePath:          statePath,
		logger:             logger,
		sessionID:          answerlog.NewSessionID(),
		now:                time.Now,
	}
}

// Greet prints a summary of the restored state.
func (p *PlayCLI) Greet() {
	_, _ = fmt.Fprintf(p.stdoutWriter, "Welcome! Your last session has been restored from %s. You have given %s answers to the set of total %s questions. Your current score is: %s.\n",
		p.italic.Sprint(p.statePath),
		p.bold.Sprint(p.engine.Epoch()),
		p.bold.Sprint(p.engine.Len()),
		p.bold.Sprintf("%.1f%%", p.engine.AggregateScore()*100),
	)
	_, _ = fmt.Fprintf(p.stdoutWriter, "Type %s to stop.\n", p.bold.Sprint(quitCommands[0]))
}

func (p *PlayCLI) Session(ctx context.Context) error {
	_, _ = fmt.Fprintln(p.stdoutWriter, formatScore(p.last, p.engine.AggregateScore(), p.delta))

	if err := SaveEngine(p.statePath, p.engine); err != nil {
		return err
	}

	question, err := p.engine.NextItem()
	if errors.Is(err, selection.ErrNoItemsAvailable) {
		_, _ = fmt.Fprintln(p.stdoutWriter, "No questions to practice! Load a dictionary first.")
		return errEnd
	}
	if err != nil {
		return fmt.Errorf("engine.NextItem() > %w", err)
	}

	answer, correct, err := p.ask(question)
	if err != nil {
		return err
	}

	epoch := p.engine.Epoch()
	previous := p.engine.AggregateScore()
	if err := p.engine.RecordAnswer(question.ID(), correct); err != nil {
		return fmt.Errorf("engine.RecordAnswer(%s) > %w", question.ID(), err)
	}
	p.delta = p.engine.AggregateScore() - previous
	p.last = &AnswerResponse{
		Correct:     correct,
		QuestionID:  question.ID(),
		GivenAnswer: answer,
		Revealed:    question.RevealedWord(),
	}

	if p.logger != nil {
		entry := answerlog.Entry{
			SessionID:   p.sessionID,
			AnsweredAt:  p.now(),
			Epoch:       epoch,
			QuestionID:  question.ID(),
			GivenAnswer: answer,
			Correct:     correct,
		}
		if err := p.logger.Log(ctx, entry); err != nil {
			slog.Default().Warn("failed to log an answer",
				slog.String("question_id", entry.QuestionID),
				slog.Any("error", err),
			)
		}
	}
	return nil
}

// ask prompts until the answer is recognized. It returns errEnd when the
// user quits or the input ends.
func (p *PlayCLI) ask(question orthography.Question) (string, bool, error) {
	for {
		_, _ = fmt.Fprintln(p.stdoutWriter, question.Prompt())
		_, _ = fmt.Fprint(p.stdoutWriter, "Your answer: ")

		line, err := p.readLine()
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(p.stdoutWriter)
			return "", false, errEnd
		}
		if err != nil {
			return "", false, fmt.Errorf("error reading input: %w", err)
		}

		answer := strings.TrimSpace(line)
		for _, command := range quitCommands {
			if strings.EqualFold(answer, command) {
				return "", false, errEnd
			}
		}

		correct, err := question.ParseResponse(answer)
		if errors.Is(err, orthography.ErrUnrecognizedAnswer) {
			_, _ = fmt.Fprintln(p.stdoutWriter, err.Error())
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("question.ParseResponse() > %w", err)
		}
		return answer, correct, nil
	}
}
