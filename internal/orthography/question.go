package orthography

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/fatih/color"
)

const maskRune = '_'

var (
	ErrInvalidWord        = errors.New("orthography: invalid word")
	ErrUnrecognizedAnswer = errors.New("orthography: unrecognized answer")
	ErrInvalidQuestion    = errors.New("orthography: invalid question")
)

var (
	targetStyle = color.New(color.Bold, color.BgBlue)
	otherStyle  = color.New(color.FgHiBlack)
	revealStyle = color.New(color.Bold)
)

// Question asks for the spelling of one placeholder (the target) of a word.
type Question struct {
	// Word is the source word with every placeholder replaced by "_".
	Word         string        `json:"word" yaml:"word"`
	Placeholders []Placeholder `json:"placeholders" yaml:"placeholders"`
	Target       int           `json:"target_placeholder_idx" yaml:"target_placeholder_idx"`
	// IDSuffix tells apart different words that would otherwise share an ID.
	IDSuffix string `json:"id_suffix,omitempty" yaml:"id_suffix,omitempty"`
}

// FromWord builds one question per placeholder found in word. Only the given
// placeholder types are considered; nil means all of them.
func FromWord(word string, types []PlaceholderType) ([]Question, error) {
	if strings.ContainsRune(word, maskRune) {
		return nil, fmt.Errorf("%w: %q cannot contain '%c'", ErrInvalidWord, word, maskRune)
	}
	if types == nil {
		types = AllPlaceholderTypes()
	}

	runes := []rune(word)
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	var masked []rune
	var placeholders []Placeholder
	for i := 0; i < len(runes); {
		t, value, length, ok := matchPlaceholder(lower, i, types)
		if !ok {
			masked = append(masked, runes[i])
			i++
			continue
		}
		placeholders = append(placeholders, Placeholder{
			Type:     t,
			Position: len(masked),
			Value:    value,
			Content:  string(runes[i : i+length]),
		})
		masked = append(masked, maskRune)
		i += length
	}

	questions := make([]Question, 0, len(placeholders))
	for target := range placeholders {
		questions = append(questions, Question{
			Word:         string(masked),
			Placeholders: placeholders,
			Target:       target,
		})
	}
	return questions, nil
}

// matchPlaceholder reports whether a placeholder of an enabled type starts at
// lower[i]. A standalone "h" right after "c" is never a placeholder.
func matchPlaceholder(lower []rune, i int, types []PlaceholderType) (PlaceholderType, bool, int, bool) {
	next := func() rune {
		if i+1 < len(lower) {
			return lower[i+1]
		}
		return 0
	}
	for _, t := range types {
		switch t {
		case PlaceholderRZ:
			if lower[i] == 'r' && next() == 'z' {
				return t, true, 2, true
			}
			if lower[i] == 'ż' {
				return t, false, 1, true
			}
		case PlaceholderCH:
			if lower[i] == 'c' && next() == 'h' {
				return t, true, 2, true
			}
			if lower[i] == 'h' && (i == 0 || lower[i-1] != 'c') {
				return t, false, 1, true
			}
		case PlaceholderU:
			if lower[i] == 'u' {
				return t, true, 1, true
			}
			if lower[i] == 'ó' {
				return t, false, 1, true
			}
		}
	}
	return "", false, 0, false
}

// Validate checks that every placeholder points at a "_" of Word in order and
// that Target names one of them.
func (q Question) Validate() error {
	if q.Target < 0 || q.Target >= len(q.Placeholders) {
		return fmt.Errorf("%w: target %d is outside [0, %d)", ErrInvalidQuestion, q.Target, len(q.Placeholders))
	}

	word := []rune(q.Word)
	masks := 0
	for _, r := range word {
		if r == maskRune {
			masks++
		}
	}
	if masks != len(q.Placeholders) {
		return fmt.Errorf("%w: %q has %d placeholders but %d masks", ErrInvalidQuestion, q.Word, len(q.Placeholders), masks)
	}

	previous := -1
	for i, p := range q.Placeholders {
		if p.Type.code() == 0 {
			return fmt.Errorf("%w: placeholder %d has unknown type %q", ErrInvalidQuestion, i, string(p.Type))
		}
		if p.Position <= previous || p.Position >= len(word) || word[p.Position] != maskRune {
			return fmt.Errorf("%w: placeholder %d at position %d does not match a mask in %q", ErrInvalidQuestion, i, p.Position, q.Word)
		}
		previous = p.Position
	}
	return nil
}

func (q Question) TargetPlaceholder() Placeholder {
	return q.Placeholders[q.Target]
}

// ID is the word with the target masked and every other placeholder filled
// with its correct letter, followed by IDSuffix.
func (q Question) ID() string {
	return q.fill(func(i int, p Placeholder) string {
		if i == q.Target {
			return string(maskRune)
		}
		return p.CorrectLetter()
	}) + q.IDSuffix
}

// CorrectWord is the word as written.
func (q Question) CorrectWord() string {
	return q.fill(func(_ int, p Placeholder) string {
		return p.Content
	})
}

// IncorrectWord is the word with the target misspelled.
func (q Question) IncorrectWord() string {
	return q.fill(func(i int, p Placeholder) string {
		if i == q.Target {
			return p.IncorrectLetter()
		}
		return p.Content
	})
}

// AmbiguousWord shows every placeholder as its two variants, the target
// highlighted.
func (q Question) AmbiguousWord() string {
	return q.fill(func(i int, p Placeholder) string {
		if i == q.Target {
			return targetStyle.Sprint(p.Type.Label())
		}
		return otherStyle.Sprint(p.Type.Label())
	})
}

// RevealedWord is the correct word with the target emphasized.
func (q Question) RevealedWord() string {
	return q.fill(func(i int, p Placeholder) string {
		if i == q.Target {
			return revealStyle.Sprint(p.Content)
		}
		return p.Content
	})
}

func (q Question) Prompt() string {
	return "Spell the blue part correctly: " + q.AmbiguousWord()
}

// ParseResponse accepts either the letters for the target or the whole word
// and reports whether the answer is correct.
func (q Question) ParseResponse(answer string) (bool, error) {
	answer = strings.ToLower(strings.TrimSpace(answer))
	target := q.TargetPlaceholder()

	switch answer {
	case target.CorrectLetter(), strings.ToLower(q.CorrectWord()):
		return true, nil
	case target.IncorrectLetter(), strings.ToLower(q.IncorrectWord()):
		return false, nil
	}
	return false, fmt.Errorf("%w: %q. Type %s or %s", ErrUnrecognizedAnswer, answer, target.CorrectLetter(), target.IncorrectLetter())
}

// Equal reports whether both questions ask the same thing about the same
// word. IDSuffix is ignored.
func (q Question) Equal(other Question) bool {
	return q.Word == other.Word &&
		q.Target == other.Target &&
		slices.Equal(q.Placeholders, other.Placeholders)
}

func (q Question) fill(render func(i int, p Placeholder) string) string {
	var b strings.Builder
	next := 0
	for pos, r := range []rune(q.Word) {
		if next < len(q.Placeholders) && q.Placeholders[next].Position == pos {
			b.WriteString(render(next, q.Placeholders[next]))
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
