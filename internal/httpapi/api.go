package httpapi

import (
	"context"

	"quiz-session/internal/quiz"
)

// QuizService is the part of quiz.Service the handlers depend on.
type QuizService interface {
	CreateQuiz(ctx context.Context, title string, questionCount int) (quiz.QuizMetadata, error)
	GetQuiz(ctx context.Context, quizID string) (quiz.Quiz, error)
	ListQuizzes(ctx context.Context, limit int) ([]quiz.QuizMetadata, error)
	SubmitAttempt(ctx context.Context, quizID, username string, entries []quiz.SubmissionEntry) (quiz.SubmitResult, error)
	GetResult(ctx context.Context, attemptID string) (quiz.QuizResult, error)
	ListHistory(ctx context.Context, username string, limit int) ([]quiz.AttemptSummary, error)
	GetUserStats(ctx context.Context, username string) (quiz.UserStats, error)
}

type API struct {
	service QuizService
}

func NewAPI(service QuizService) *API {
	return &API{service: service}
}
