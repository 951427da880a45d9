package quiz

import (
	"fmt"
	"math"
)

const (
	BandExcellent = "excellent"
	BandGood      = "good"
	BandFair      = "fair"
	BandNeedsWork = "needs_work"
)

// ScoreSubmission grades entries against quiz in question order. Questions
// missing from entries, or sent with a nil option, count as incorrect.
func ScoreSubmission(quiz Quiz, entries []SubmissionEntry) ([]QuestionResult, int, error) {
	selected := make(map[string]*string, len(entries))
	for _, entry := range entries {
		idx := quiz.QuestionIndex(entry.QuestionID)
		if idx < 0 {
			return nil, 0, fmt.Errorf("%w: question %q is not part of quiz %s", ErrValidation, entry.QuestionID, quiz.QuizID)
		}
		if _, dup := selected[entry.QuestionID]; dup {
			return nil, 0, fmt.Errorf("%w: question %q answered more than once", ErrValidation, entry.QuestionID)
		}
		if entry.OptionID != nil && !quiz.Questions[idx].HasOption(*entry.OptionID) {
			return nil, 0, fmt.Errorf("%w: option %q does not belong to question %q", ErrValidation, *entry.OptionID, entry.QuestionID)
		}
		selected[entry.QuestionID] = entry.OptionID
	}

	results := make([]QuestionResult, 0, len(quiz.Questions))
	score := 0
	for _, question := range quiz.Questions {
		choice := selected[question.QuestionID]
		correct := question.CorrectOptionID()
		isCorrect := choice != nil && *choice == correct
		if isCorrect {
			score++
		}
		results = append(results, QuestionResult{
			QuestionID:       question.QuestionID,
			SelectedOptionID: choice,
			CorrectOptionID:  correct,
			IsCorrect:        isCorrect,
		})
	}

	return results, score, nil
}

// Percentage is rounded to two decimals.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)*10000/float64(total)) / 100
}

func ScoreBand(percentage float64) string {
	switch {
	case percentage >= 80:
		return BandExcellent
	case percentage >= 60:
		return BandGood
	case percentage >= 40:
		return BandFair
	default:
		return BandNeedsWork
	}
}
