package quizclient

import (
	"fmt"
	"strings"
	"time"

	"quiz-session/internal/quiz"
)

// Wire shapes are decoded loosely and checked in the to* converters, so a
// malformed payload surfaces as quiz.ErrValidation instead of a zero value.

type errorResponse struct {
	Error string `json:"error"`
}

type quizListResponse struct {
	Quizzes []quiz.QuizMetadata `json:"quizzes"`
}

type attemptListResponse struct {
	Attempts []quiz.AttemptSummary `json:"attempts"`
}

type createQuizRequest struct {
	Title         string `json:"title,omitempty"`
	QuestionCount int    `json:"question_count,omitempty"`
}

type submitRequest struct {
	Username string                 `json:"username,omitempty"`
	Answers  []quiz.SubmissionEntry `json:"answers"`
}

type optionResponse struct {
	OptionID string `json:"option_id"`
	Text     string `json:"text"`
}

type questionResponse struct {
	QuestionID string           `json:"question_id"`
	Prompt     string           `json:"prompt"`
	Options    []optionResponse `json:"options"`
}

type quizResponse struct {
	QuizID    string             `json:"quiz_id"`
	Title     string             `json:"title"`
	CreatedAt time.Time          `json:"created_at"`
	Questions []questionResponse `json:"questions"`
}

func (r quizResponse) toQuiz() (quiz.Quiz, error) {
	if strings.TrimSpace(r.QuizID) == "" {
		return quiz.Quiz{}, fmt.Errorf("%w: quiz without quiz_id", quiz.ErrValidation)
	}
	if len(r.Questions) == 0 {
		return quiz.Quiz{}, fmt.Errorf("%w: quiz %s has no questions", quiz.ErrValidation, r.QuizID)
	}

	out := quiz.Quiz{
		QuizID:    r.QuizID,
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
		Questions: make([]quiz.Question, 0, len(r.Questions)),
	}
	seenQuestions := make(map[string]struct{}, len(r.Questions))
	for idx, item := range r.Questions {
		if strings.TrimSpace(item.QuestionID) == "" {
			return quiz.Quiz{}, fmt.Errorf("%w: question %d without question_id", quiz.ErrValidation, idx+1)
		}
		if _, dup := seenQuestions[item.QuestionID]; dup {
			return quiz.Quiz{}, fmt.Errorf("%w: duplicate question_id %q", quiz.ErrValidation, item.QuestionID)
		}
		seenQuestions[item.QuestionID] = struct{}{}

		if len(item.Options) < 2 {
			return quiz.Quiz{}, fmt.Errorf("%w: question %q has %d options", quiz.ErrValidation, item.QuestionID, len(item.Options))
		}
		question := quiz.Question{
			QuestionID: item.QuestionID,
			Prompt:     item.Prompt,
			Options:    make([]quiz.Option, 0, len(item.Options)),
		}
		seenOptions := make(map[string]struct{}, len(item.Options))
		for _, option := range item.Options {
			if strings.TrimSpace(option.OptionID) == "" {
				return quiz.Quiz{}, fmt.Errorf("%w: question %q has an option without option_id", quiz.ErrValidation, item.QuestionID)
			}
			if _, dup := seenOptions[option.OptionID]; dup {
				return quiz.Quiz{}, fmt.Errorf("%w: duplicate option_id %q", quiz.ErrValidation, option.OptionID)
			}
			seenOptions[option.OptionID] = struct{}{}
			question.Options = append(question.Options, quiz.Option{
				OptionID: option.OptionID,
				Text:     option.Text,
			})
		}
		out.Questions = append(out.Questions, question)
	}

	return out, nil
}

type submitResponse struct {
	AttemptID      string                `json:"attempt_id"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"total_questions"`
	Percentage     float64               `json:"percentage"`
	Results        []quiz.QuestionResult `json:"results"`
}

func (r submitResponse) toResult() (quiz.SubmitResult, error) {
	if err := validateScore(r.AttemptID, r.Score, r.TotalQuestions, r.Percentage); err != nil {
		return quiz.SubmitResult{}, err
	}
	if err := validateQuestionResults(r.Results); err != nil {
		return quiz.SubmitResult{}, err
	}
	return quiz.SubmitResult{
		AttemptID:      r.AttemptID,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Percentage:     r.Percentage,
		Results:        r.Results,
	}, nil
}

type resultResponse struct {
	quiz.QuizResult
}

func (r resultResponse) toResult() (quiz.QuizResult, error) {
	if err := validateSummary(r.AttemptSummary); err != nil {
		return quiz.QuizResult{}, err
	}
	if err := validateQuestionResults(r.Results); err != nil {
		return quiz.QuizResult{}, err
	}
	return r.QuizResult, nil
}

func validateSummary(item quiz.AttemptSummary) error {
	return validateScore(item.AttemptID, item.Score, item.TotalQuestions, item.Percentage)
}

func validateScore(attemptID string, score, total int, percentage float64) error {
	if strings.TrimSpace(attemptID) == "" {
		return fmt.Errorf("%w: result without attempt_id", quiz.ErrValidation)
	}
	if total < 0 || score < 0 || score > total {
		return fmt.Errorf("%w: score %d out of %d", quiz.ErrValidation, score, total)
	}
	if percentage < 0 || percentage > 100 {
		return fmt.Errorf("%w: percentage %v out of range", quiz.ErrValidation, percentage)
	}
	return nil
}

func validateQuestionResults(results []quiz.QuestionResult) error {
	for idx, item := range results {
		if strings.TrimSpace(item.QuestionID) == "" {
			return fmt.Errorf("%w: result %d without question_id", quiz.ErrValidation, idx+1)
		}
	}
	return nil
}
