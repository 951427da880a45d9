package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"quiz-session/internal/quiz"
)

const (
	defaultListLimit = 10
	maxBodyBytes     = 1 << 20
)

func (a *API) HandleListQuizzes(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r, "limit", defaultListLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	quizzes, err := a.service.ListQuizzes(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizListResponse{Quizzes: quizzes})
}

func (a *API) HandleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var request createQuizRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	// An empty body means "all defaults".
	if err := decoder.Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if request.QuestionCount < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question_count must be a positive integer"})
		return
	}

	metadata, err := a.service.CreateQuiz(r.Context(), request.Title, request.QuestionCount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	quizzesCreated.Inc()
	writeJSON(w, http.StatusCreated, metadata)
}

func (a *API) HandleGetQuiz(w http.ResponseWriter, r *http.Request) {
	loaded, err := a.service.GetQuiz(r.Context(), chi.URLParam(r, "quiz_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuizResponse(loaded))
}

func (a *API) HandleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	var request submitRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	for _, entry := range request.Answers {
		if strings.TrimSpace(entry.QuestionID) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "each answer requires question_id"})
			return
		}
	}

	quizID := chi.URLParam(r, "quiz_id")
	result, err := a.service.SubmitAttempt(r.Context(), quizID, request.Username, request.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	band := quiz.ScoreBand(result.Percentage)
	submissionsTotal.WithLabelValues(band).Inc()
	logSubmission(submissionLogLine{
		Event:      "attempt_submitted",
		RequestID:  middleware.GetReqID(r.Context()),
		QuizID:     quizID,
		AttemptID:  result.AttemptID,
		Username:   strings.ToLower(strings.TrimSpace(request.Username)),
		Score:      result.Score,
		Total:      result.TotalQuestions,
		Percentage: result.Percentage,
		Band:       band,
	})

	writeJSON(w, http.StatusCreated, result)
}

func (a *API) HandleGetAttempt(w http.ResponseWriter, r *http.Request) {
	result, err := a.service.GetResult(r.Context(), chi.URLParam(r, "attempt_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) HandleUserAttempts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r, "limit", defaultListLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	username := chi.URLParam(r, "username")
	attempts, err := a.service.ListHistory(r.Context(), username, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attemptListResponse{
		Username: strings.ToLower(strings.TrimSpace(username)),
		Attempts: attempts,
	})
}

func (a *API) HandleUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.service.GetUserStats(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func logSubmission(line submissionLogLine) {
	encoded, err := json.Marshal(line)
	if err != nil {
		return
	}
	log.Print(string(encoded))
}
