package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"quiz-session/internal/quiz"
)

type fakeAPI struct {
	quizzes map[string]quiz.Quiz

	submitErrs     []error
	submitCalls    int
	lastSubmission []quiz.SubmissionEntry

	results      map[string]quiz.QuizResult
	attempts     []quiz.AttemptSummary
	attemptLimit int
	stats        quiz.UserStats
	statsErr     error

	createdTitle string
	createdCount int
}

func (f *fakeAPI) FetchQuiz(_ context.Context, quizID string) (quiz.Quiz, error) {
	item, ok := f.quizzes[quizID]
	if !ok {
		return quiz.Quiz{}, quiz.ErrQuizNotFound
	}
	return item, nil
}

func (f *fakeAPI) SubmitAnswers(_ context.Context, quizID string, submission []quiz.SubmissionEntry) (quiz.SubmitResult, error) {
	f.submitCalls++
	f.lastSubmission = submission
	if len(f.submitErrs) > 0 {
		err := f.submitErrs[0]
		f.submitErrs = f.submitErrs[1:]
		if err != nil {
			return quiz.SubmitResult{}, err
		}
	}

	q := f.quizzes[quizID]
	results, score, err := quiz.ScoreSubmission(q, submission)
	if err != nil {
		return quiz.SubmitResult{}, err
	}
	return quiz.SubmitResult{
		AttemptID:      "att-1",
		Score:          score,
		TotalQuestions: len(q.Questions),
		Percentage:     quiz.Percentage(score, len(q.Questions)),
		Results:        results,
	}, nil
}

func (f *fakeAPI) FetchResults(_ context.Context, attemptID string) (quiz.QuizResult, error) {
	item, ok := f.results[attemptID]
	if !ok {
		return quiz.QuizResult{}, quiz.ErrAttemptNotFound
	}
	return item, nil
}

func (f *fakeAPI) ListQuizzes(_ context.Context, _ int) ([]quiz.QuizMetadata, error) {
	out := make([]quiz.QuizMetadata, 0, len(f.quizzes))
	for _, item := range f.quizzes {
		out = append(out, item.Metadata())
	}
	return out, nil
}

func (f *fakeAPI) CreateQuiz(_ context.Context, title string, questionCount int) (quiz.QuizMetadata, error) {
	f.createdTitle = title
	f.createdCount = questionCount
	return quiz.QuizMetadata{QuizID: "qz_new", Title: title, QuestionCount: questionCount}, nil
}

func (f *fakeAPI) ListAttempts(_ context.Context, limit int) ([]quiz.AttemptSummary, error) {
	f.attemptLimit = limit
	return f.attempts, nil
}

func (f *fakeAPI) GetStats(_ context.Context) (quiz.UserStats, error) {
	if f.statsErr != nil {
		return quiz.UserStats{}, f.statsErr
	}
	return f.stats, nil
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		quizzes: map[string]quiz.Quiz{
			"quiz-1": {
				QuizID: "quiz-1",
				Title:  "Capitals",
				Questions: []quiz.Question{
					{QuestionID: "q1", Prompt: "Capital of France?", Options: []quiz.Option{
						{OptionID: "q1_o1", Text: "Paris", IsCorrect: true},
						{OptionID: "q1_o2", Text: "Lyon"},
					}},
					{QuestionID: "q2", Prompt: "Capital of Italy?", Options: []quiz.Option{
						{OptionID: "q2_o1", Text: "Milan"},
						{OptionID: "q2_o2", Text: "Rome", IsCorrect: true},
					}},
					{QuestionID: "q3", Prompt: "Capital of Spain?", Options: []quiz.Option{
						{OptionID: "q3_o1", Text: "Madrid", IsCorrect: true},
						{OptionID: "q3_o2", Text: "Seville"},
					}},
				},
			},
		},
		results: map[string]quiz.QuizResult{},
	}
}

func runScript(t *testing.T, api *fakeAPI, script string) string {
	t.Helper()
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(script))
	if err := runREPL(context.Background(), reader, &out, api, "http://quiz.test", 0); err != nil {
		t.Fatalf("runREPL failed: %v", err)
	}
	return out.String()
}

func TestParsePositiveLimit(t *testing.T) {
	if got, err := parsePositiveLimit([]string{"quizzes"}, 1, 10); err != nil || got != 10 {
		t.Fatalf("default parsePositiveLimit = (%d, %v), want (10, nil)", got, err)
	}
	if got, err := parsePositiveLimit([]string{"quizzes", "3"}, 1, 10); err != nil || got != 3 {
		t.Fatalf("valid parsePositiveLimit = (%d, %v), want (3, nil)", got, err)
	}
	if _, err := parsePositiveLimit([]string{"quizzes", "0"}, 1, 10); err == nil {
		t.Fatalf("expected validation error for non-positive limit")
	}
}

func TestParseOptionLetter(t *testing.T) {
	if idx, ok := parseOptionLetter(" b ", 2); !ok || idx != 1 {
		t.Fatalf("parseOptionLetter(b) = (%d, %t), want (1, true)", idx, ok)
	}
	if _, ok := parseOptionLetter("c", 2); ok {
		t.Fatalf("expected c to be out of range for two options")
	}
	if _, ok := parseOptionLetter("ab", 4); ok {
		t.Fatalf("expected multi-letter input to be rejected")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, "[----------] 0%"},
		{25, "[###-------] 25%"},
		{100.0 / 3.0, "[###-------] 33%"},
		{100, "[##########] 100%"},
		{150, "[##########] 100%"},
	}
	for _, tc := range tests {
		if got := progressBar(tc.percent, 10); got != tc.want {
			t.Fatalf("progressBar(%v) = %q, want %q", tc.percent, got, tc.want)
		}
	}
}

func TestPromptYesNoRetriesUntilValid(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("maybe\nyes\n"))
	var out bytes.Buffer

	ok, err := promptYesNo(reader, &out, "continue? ")
	if err != nil || !ok {
		t.Fatalf("promptYesNo = (%t, %v), want (true, nil)", ok, err)
	}
	if !strings.Contains(out.String(), "Please answer yes or no.") {
		t.Fatalf("expected retry message, got %q", out.String())
	}
}

func TestTakeQuizPartialSubmission(t *testing.T) {
	api := newFakeAPI()

	// Answer q1, jump past q2, answer q3, then confirm.
	output := runScript(t, api, "take quiz-1\na\ngoto 3\na\nyes\nexit\n")

	if api.submitCalls != 1 {
		t.Fatalf("expected one submit, got %d", api.submitCalls)
	}
	if len(api.lastSubmission) != 3 {
		t.Fatalf("expected one entry per question, got %d", len(api.lastSubmission))
	}
	if api.lastSubmission[1].OptionID != nil {
		t.Fatalf("q2 should be submitted unanswered, got %q", *api.lastSubmission[1].OptionID)
	}
	if *api.lastSubmission[0].OptionID != "q1_o1" || *api.lastSubmission[2].OptionID != "q3_o1" {
		t.Fatalf("unexpected submission: %+v", api.lastSubmission)
	}

	for _, want := range []string{
		"Answered 2 of 3 questions.",
		"Score: 2/3 (66.67%, good)",
		"attempt_id=att-1",
		"2. [skipped] Capital of Italy?",
		"correct answer: B. Rome",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q:\n%s", want, output)
		}
	}
}

func TestTakeQuizConfirmsStoredResult(t *testing.T) {
	api := newFakeAPI()
	submitted := time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)
	api.results["att-1"] = quiz.QuizResult{
		AttemptSummary: quiz.AttemptSummary{AttemptID: "att-1", QuizID: "quiz-1", Score: 1, TotalQuestions: 3, SubmittedAt: submitted},
	}

	output := runScript(t, api, "take quiz-1\na\nb\nb\nyes\nexit\n")

	if !strings.Contains(output, "Saved at 2024-03-02T09:30:00Z. Run: result att-1") {
		t.Fatalf("expected stored result confirmation, got:\n%s", output)
	}
}

func TestTakeQuizReportsMissingStoredResult(t *testing.T) {
	api := newFakeAPI()

	output := runScript(t, api, "take quiz-1\na\nb\nb\nyes\nexit\n")

	if !strings.Contains(output, "Score: 2/3") {
		t.Fatalf("expected the score before the stored lookup, got:\n%s", output)
	}
	if !strings.Contains(output, "stored result unavailable:") {
		t.Fatalf("expected a stored result warning, got:\n%s", output)
	}
}

func TestTakeQuizShowsQuestionMap(t *testing.T) {
	api := newFakeAPI()

	output := runScript(t, api, "take quiz-1\na\ngoto 3\nquit\nexit\n")

	for _, want := range []string{
		"[.] .  . ",
		" * [.] . ",
		" *  . [.]",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing question map %q:\n%s", want, output)
		}
	}
}

func TestTakeQuizNavigationGates(t *testing.T) {
	api := newFakeAPI()

	output := runScript(t, api, "take quiz-1\nnext\nback\ngoto 9\nz\na\nback\nquit\nexit\n")

	for _, want := range []string{
		"Pick an answer first",
		"Already at the first question.",
		"No question 9. Choose 1-3.",
		"Invalid input. Enter a letter A-B",
		"* A. Paris",
		"Quiz abandoned.",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q:\n%s", want, output)
		}
	}
	if api.submitCalls != 0 {
		t.Fatalf("abandoned quiz must not submit")
	}
}

func TestTakeQuizDeclineThenRetryAfterFailure(t *testing.T) {
	api := newFakeAPI()
	api.submitErrs = []error{fmt.Errorf("%w: connection refused", quiz.ErrNetwork)}

	// Decline once, go back to confirm, fail once, then succeed.
	output := runScript(t, api, "take quiz-1\na\nb\na\nno\nnext\nyes\nyes\nexit\n")

	if api.submitCalls != 2 {
		t.Fatalf("expected a failed and a successful submit, got %d calls", api.submitCalls)
	}
	for _, want := range []string{
		"submit failed: quiz service unavailable at http://quiz.test",
		"Score: 3/3 (100%, excellent)",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q:\n%s", want, output)
		}
	}
}

func TestTakeUnknownQuiz(t *testing.T) {
	output := runScript(t, newFakeAPI(), "take nope\nexit\n")
	if !strings.Contains(output, "error: quiz not found") {
		t.Fatalf("expected not found error, got:\n%s", output)
	}
}

func TestCommandsListNewHistoryStats(t *testing.T) {
	api := newFakeAPI()
	submitted := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	api.attempts = []quiz.AttemptSummary{
		{AttemptID: "att-9", QuizID: "quiz-1", QuizTitle: "Capitals", Score: 1, TotalQuestions: 3, Percentage: 33.33, SubmittedAt: submitted},
	}
	api.results["att-9"] = quiz.QuizResult{
		AttemptSummary: api.attempts[0],
		Results: []quiz.QuestionResult{
			{QuestionID: "q1", IsCorrect: true, SelectedOptionID: strPtr("q1_o1")},
		},
	}
	api.stats = quiz.UserStats{
		Username:          "alice",
		AttemptCount:      1,
		AveragePercentage: 33.33,
		BestPercentage:    33.33,
		CurrentStreak:     1,
		LongestStreak:     1,
		Bands:             map[string]int{quiz.BandNeedsWork: 1, quiz.BandGood: 0},
	}

	output := runScript(t, api, "quizzes\nnew 5 World Capitals\nhistory 2\nresult att-9\nstats\nbogus\nexit\n")

	if api.createdCount != 5 || api.createdTitle != "World Capitals" {
		t.Fatalf("unexpected create call: (%q, %d)", api.createdTitle, api.createdCount)
	}
	if api.attemptLimit != 2 {
		t.Fatalf("history limit = %d, want 2", api.attemptLimit)
	}
	for _, want := range []string{
		`1. quiz-1 "Capitals" (3 questions`,
		"Created quiz qz_new",
		"1. att-9 Capitals 1/3 (33.33%, needs_work)",
		"Attempt att-9 on Capitals",
		"1. [correct] q1",
		"streak: 1 day(s), longest 1",
		"bands: good=0 needs_work=1",
		"unknown command",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q:\n%s", want, output)
		}
	}
}

func TestStatsWithoutUsername(t *testing.T) {
	api := newFakeAPI()
	api.statsErr = quiz.ErrInvalidUsername

	output := runScript(t, api, "stats\n")
	if !strings.Contains(output, "start quiz-cli with -username") {
		t.Fatalf("expected username hint, got:\n%s", output)
	}
}

func strPtr(v string) *string {
	return &v
}
