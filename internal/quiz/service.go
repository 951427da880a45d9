package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-session/internal/opentdb"
)

const (
	defaultQuizTitle     = "General Trivia"
	defaultQuestionCount = 10
	maxQuestionCount     = 50
)

type QuestionsFetcher func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)

type Service struct {
	quizzes  QuizRepository
	attempts AttemptRepository
	fetcher  QuestionsFetcher
	results  ResultCache

	mu        sync.RWMutex
	quizCache map[string]Quiz
	now       func() time.Time
	newID     func() string
}

// NewService wires the repositories. A nil results cache falls back to an
// in-memory cache.
func NewService(quizzes QuizRepository, attempts AttemptRepository, fetcher QuestionsFetcher, results ResultCache) *Service {
	if results == nil {
		results = NewMemoryResultCache(DefaultResultTTL)
	}
	return &Service{
		quizzes:   quizzes,
		attempts:  attempts,
		fetcher:   fetcher,
		results:   results,
		quizCache: make(map[string]Quiz),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

func (s *Service) CreateQuiz(ctx context.Context, title string, questionCount int) (QuizMetadata, error) {
	if s.fetcher == nil {
		return QuizMetadata{}, errors.New("question fetcher is not configured")
	}
	if questionCount <= 0 {
		questionCount = defaultQuestionCount
	}
	if questionCount > maxQuestionCount {
		return QuizMetadata{}, fmt.Errorf("%w: question_count must be at most %d", ErrValidation, maxQuestionCount)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultQuizTitle
	}

	rawQuestions, err := s.fetcher(ctx, questionCount)
	if err != nil {
		return QuizMetadata{}, fmt.Errorf("fetch questions: %w", err)
	}

	questions := BuildQuestions(rawQuestions)
	if len(questions) == 0 {
		return QuizMetadata{}, errors.New("question source returned no usable questions")
	}

	created := Quiz{
		QuizID:    "qz_" + s.newID(),
		Title:     title,
		CreatedAt: s.now(),
		Questions: questions,
	}
	if err := s.quizzes.CreateQuiz(ctx, created); err != nil {
		return QuizMetadata{}, fmt.Errorf("store quiz: %w", err)
	}
	s.setCachedQuiz(created)

	return created.Metadata(), nil
}

func (s *Service) GetQuiz(ctx context.Context, quizID string) (Quiz, error) {
	quizID = strings.TrimSpace(quizID)
	if quizID == "" {
		return Quiz{}, ErrQuizNotFound
	}
	if cached, ok := s.getCachedQuiz(quizID); ok {
		return cached, nil
	}

	loaded, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return Quiz{}, err
	}
	s.setCachedQuiz(loaded)
	return loaded, nil
}

func (s *Service) ListQuizzes(ctx context.Context, limit int) ([]QuizMetadata, error) {
	return s.quizzes.ListQuizzes(ctx, limit)
}

// SubmitAttempt scores and stores one attempt. The username is optional;
// anonymous attempts are stored but never show up in history.
func (s *Service) SubmitAttempt(ctx context.Context, quizID, username string, entries []SubmissionEntry) (SubmitResult, error) {
	loaded, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return SubmitResult{}, err
	}

	results, score, err := ScoreSubmission(loaded, entries)
	if err != nil {
		return SubmitResult{}, err
	}

	total := len(loaded.Questions)
	record := QuizResult{
		AttemptSummary: AttemptSummary{
			AttemptID:      s.newID(),
			QuizID:         loaded.QuizID,
			QuizTitle:      loaded.Title,
			Score:          score,
			TotalQuestions: total,
			Percentage:     Percentage(score, total),
			SubmittedAt:    s.now(),
		},
		Username: normalizeUsername(username),
		Results:  results,
	}

	if err := s.attempts.SaveAttempt(ctx, record); err != nil {
		return SubmitResult{}, fmt.Errorf("store attempt: %w", err)
	}
	// The cache is read-through; a failed write only costs a repository read later.
	_ = s.results.SetResult(ctx, record)

	return SubmitResult{
		AttemptID:      record.AttemptID,
		Score:          record.Score,
		TotalQuestions: record.TotalQuestions,
		Percentage:     record.Percentage,
		Results:        record.Results,
	}, nil
}

func (s *Service) GetResult(ctx context.Context, attemptID string) (QuizResult, error) {
	attemptID = strings.TrimSpace(attemptID)
	if attemptID == "" {
		return QuizResult{}, ErrAttemptNotFound
	}

	if cached, ok, err := s.results.GetResult(ctx, attemptID); err == nil && ok {
		return cached, nil
	}

	result, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return QuizResult{}, err
	}
	_ = s.results.SetResult(ctx, result)
	return result, nil
}

func (s *Service) ListHistory(ctx context.Context, username string, limit int) ([]AttemptSummary, error) {
	usernameNormalized := normalizeUsername(username)
	if usernameNormalized == "" {
		return nil, ErrInvalidUsername
	}
	return s.attempts.ListAttemptsByUser(ctx, usernameNormalized, limit)
}

func (s *Service) GetUserStats(ctx context.Context, username string) (UserStats, error) {
	usernameNormalized := normalizeUsername(username)
	if usernameNormalized == "" {
		return UserStats{}, ErrInvalidUsername
	}

	attempts, err := s.attempts.ListAttemptsByUser(ctx, usernameNormalized, 0)
	if err != nil {
		return UserStats{}, err
	}
	return ComputeStats(usernameNormalized, attempts, s.now()), nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
