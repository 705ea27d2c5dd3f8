package cli

import (
	"fmt"
	"math"

	"github.com/fatih/color"
)

// Score changes smaller than this are not shown.
const deltaThreshold = 0.0005

// AnswerResponse is the outcome of the last answer
type AnswerResponse struct {
	Correct     bool
	QuestionID  string
	GivenAnswer string
	// Revealed is the correctly spelled word.
	Revealed string
}

// formatScore renders the verdict of the last answer followed by the score.
func formatScore(last *AnswerResponse, score, delta float64) string {
	bold := color.New(color.Bold)

	var prefix string
	switch {
	case last == nil:
		prefix = "Current score: "
	case last.Correct:
		prefix = color.New(color.Bold, color.FgGreen).Sprint("Correct") + " "
	default:
		prefix = color.New(color.Bold, color.FgRed).Sprint("Incorrect") + fmt.Sprintf(" (%s) ", last.Revealed)
	}

	text := prefix + bold.Sprintf("%.1f%%", score*100)
	if math.Abs(delta) > deltaThreshold {
		change := color.GreenString("%+.2f%%", delta*100)
		if delta < 0 {
			change = color.RedString("%+.2f%%", delta*100)
		}
		text += " (" + change + " change)"
	}
	return text + "."
}
