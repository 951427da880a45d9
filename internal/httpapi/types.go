package httpapi

import (
	"time"

	"quiz-session/internal/quiz"
)

type errorResponse struct {
	Error string `json:"error"`
}

type quizListResponse struct {
	Quizzes []quiz.QuizMetadata `json:"quizzes"`
}

type createQuizRequest struct {
	Title         string `json:"title,omitempty"`
	QuestionCount int    `json:"question_count,omitempty"`
}

// Options never carry correctness while a quiz is being taken.
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

type submitRequest struct {
	Username string                 `json:"username,omitempty"`
	Answers  []quiz.SubmissionEntry `json:"answers"`
}

type attemptListResponse struct {
	Username string                `json:"username"`
	Attempts []quiz.AttemptSummary `json:"attempts"`
}

type submissionLogLine struct {
	Event      string  `json:"event"`
	RequestID  string  `json:"request_id,omitempty"`
	QuizID     string  `json:"quiz_id"`
	AttemptID  string  `json:"attempt_id"`
	Username   string  `json:"username,omitempty"`
	Score      int     `json:"score"`
	Total      int     `json:"total_questions"`
	Percentage float64 `json:"percentage"`
	Band       string  `json:"band"`
}
