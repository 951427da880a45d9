package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Error taxonomy shared by the service, the HTTP client and the session.
var (
	ErrNotFound   = errors.New("not found")
	ErrNetwork    = errors.New("network error")
	ErrValidation = errors.New("validation error")
)

var (
	ErrQuizNotFound    = fmt.Errorf("quiz %w", ErrNotFound)
	ErrAttemptNotFound = fmt.Errorf("attempt %w", ErrNotFound)
	ErrInvalidUsername = fmt.Errorf("%w: username is required", ErrValidation)
)

type QuizMetadata struct {
	QuizID        string    `json:"quiz_id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// AttemptSummary is one scored attempt without its per-question breakdown.
type AttemptSummary struct {
	AttemptID      string    `json:"attempt_id"`
	QuizID         string    `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

type QuizResult struct {
	AttemptSummary
	Username string           `json:"username,omitempty"`
	Results  []QuestionResult `json:"results"`
}

type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz Quiz) error
	GetQuiz(ctx context.Context, quizID string) (Quiz, error)
	ListQuizzes(ctx context.Context, limit int) ([]QuizMetadata, error)
}

type AttemptRepository interface {
	SaveAttempt(ctx context.Context, result QuizResult) error
	GetAttempt(ctx context.Context, attemptID string) (QuizResult, error)
	// ListAttemptsByUser returns newest first; limit <= 0 means all.
	ListAttemptsByUser(ctx context.Context, usernameNormalized string, limit int) ([]AttemptSummary, error)
}
