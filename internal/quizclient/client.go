package quizclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"quiz-session/internal/quiz"
)

const DefaultBaseURL = "http://127.0.0.1:8080"

// APIError is a non-2xx answer from the quiz service. It unwraps to the
// matching quiz sentinel so callers can use errors.Is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return quiz.ErrNotFound
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return quiz.ErrValidation
	case e.StatusCode >= http.StatusInternalServerError:
		return quiz.ErrNetwork
	default:
		return nil
	}
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	username   string
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// WithUsername returns a copy that attributes submissions to username.
func (c *HTTPClient) WithUsername(username string) *HTTPClient {
	clone := *c
	clone.username = strings.TrimSpace(username)
	return &clone
}

func (c *HTTPClient) Username() string {
	return c.username
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) ListQuizzes(ctx context.Context, limit int) ([]quiz.QuizMetadata, error) {
	if limit <= 0 {
		limit = 10
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var payload quizListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/quizzes?"+query.Encode(), nil, &payload); err != nil {
		return nil, err
	}
	for _, item := range payload.Quizzes {
		if strings.TrimSpace(item.QuizID) == "" {
			return nil, fmt.Errorf("%w: quiz listing entry without quiz_id", quiz.ErrValidation)
		}
	}
	return payload.Quizzes, nil
}

func (c *HTTPClient) CreateQuiz(ctx context.Context, title string, questionCount int) (quiz.QuizMetadata, error) {
	request := createQuizRequest{
		Title:         strings.TrimSpace(title),
		QuestionCount: questionCount,
	}

	var payload quiz.QuizMetadata
	if err := c.doJSON(ctx, http.MethodPost, "/quizzes", request, &payload); err != nil {
		return quiz.QuizMetadata{}, err
	}
	if strings.TrimSpace(payload.QuizID) == "" {
		return quiz.QuizMetadata{}, fmt.Errorf("%w: created quiz without quiz_id", quiz.ErrValidation)
	}
	return payload, nil
}

func (c *HTTPClient) FetchQuiz(ctx context.Context, quizID string) (quiz.Quiz, error) {
	quizID = strings.TrimSpace(quizID)
	if quizID == "" {
		return quiz.Quiz{}, fmt.Errorf("%w: quiz_id is required", quiz.ErrValidation)
	}

	var payload quizResponse
	if err := c.doJSON(ctx, http.MethodGet, "/quizzes/"+url.PathEscape(quizID), nil, &payload); err != nil {
		return quiz.Quiz{}, err
	}
	return payload.toQuiz()
}

func (c *HTTPClient) SubmitAnswers(ctx context.Context, quizID string, submission []quiz.SubmissionEntry) (quiz.SubmitResult, error) {
	quizID = strings.TrimSpace(quizID)
	if quizID == "" {
		return quiz.SubmitResult{}, fmt.Errorf("%w: quiz_id is required", quiz.ErrValidation)
	}
	if submission == nil {
		submission = []quiz.SubmissionEntry{}
	}

	request := submitRequest{
		Username: c.username,
		Answers:  submission,
	}

	var payload submitResponse
	path := "/quizzes/" + url.PathEscape(quizID) + "/attempts"
	if err := c.doJSON(ctx, http.MethodPost, path, request, &payload); err != nil {
		return quiz.SubmitResult{}, err
	}
	return payload.toResult()
}

func (c *HTTPClient) FetchResults(ctx context.Context, attemptID string) (quiz.QuizResult, error) {
	attemptID = strings.TrimSpace(attemptID)
	if attemptID == "" {
		return quiz.QuizResult{}, fmt.Errorf("%w: attempt_id is required", quiz.ErrValidation)
	}

	var payload resultResponse
	if err := c.doJSON(ctx, http.MethodGet, "/attempts/"+url.PathEscape(attemptID), nil, &payload); err != nil {
		return quiz.QuizResult{}, err
	}
	return payload.toResult()
}

func (c *HTTPClient) ListAttempts(ctx context.Context, limit int) ([]quiz.AttemptSummary, error) {
	if c.username == "" {
		return nil, quiz.ErrInvalidUsername
	}
	if limit <= 0 {
		limit = 10
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	path := "/users/" + url.PathEscape(c.username) + "/attempts?" + query.Encode()

	var payload attemptListResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	for _, item := range payload.Attempts {
		if err := validateSummary(item); err != nil {
			return nil, err
		}
	}
	return payload.Attempts, nil
}

func (c *HTTPClient) GetStats(ctx context.Context) (quiz.UserStats, error) {
	if c.username == "" {
		return quiz.UserStats{}, quiz.ErrInvalidUsername
	}

	var payload quiz.UserStats
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(c.username)+"/stats", nil, &payload); err != nil {
		return quiz.UserStats{}, err
	}
	if payload.AttemptCount < 0 {
		return quiz.UserStats{}, fmt.Errorf("%w: negative attempt_count", quiz.ErrValidation)
	}
	return payload, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", quiz.ErrNetwork, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(responseBody); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%w: read response: %v", quiz.ErrNetwork, err)
		}
		return fmt.Errorf("%w: decode response: %v", quiz.ErrValidation, err)
	}
	return nil
}
