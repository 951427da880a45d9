package quiz

import (
	"errors"
	"testing"
)

func scoringQuiz() Quiz {
	return Quiz{
		QuizID: "quiz-1",
		Questions: []Question{
			{QuestionID: "q1", Options: []Option{{OptionID: "o1", IsCorrect: true}, {OptionID: "o2"}}},
			{QuestionID: "q2", Options: []Option{{OptionID: "o3"}, {OptionID: "o4", IsCorrect: true}}},
			{QuestionID: "q3", Options: []Option{{OptionID: "o5", IsCorrect: true}, {OptionID: "o6"}}},
		},
	}
}

func strPtr(v string) *string {
	return &v
}

func TestScoreSubmissionCountsSkippedAsIncorrect(t *testing.T) {
	results, score, err := ScoreSubmission(scoringQuiz(), []SubmissionEntry{
		{QuestionID: "q3", OptionID: strPtr("o5")},
		{QuestionID: "q1", OptionID: strPtr("o2")},
		{QuestionID: "q2", OptionID: nil},
	})
	if err != nil {
		t.Fatalf("ScoreSubmission failed: %v", err)
	}
	if score != 1 {
		t.Fatalf("score = %d, want 1", score)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	wantOrder := []string{"q1", "q2", "q3"}
	for idx, id := range wantOrder {
		if results[idx].QuestionID != id {
			t.Fatalf("results[%d] = %q, want %q", idx, results[idx].QuestionID, id)
		}
	}
	if results[0].IsCorrect || results[0].CorrectOptionID != "o1" {
		t.Fatalf("unexpected q1 result: %+v", results[0])
	}
	if results[1].SelectedOptionID != nil || results[1].IsCorrect {
		t.Fatalf("skipped q2 should be unselected and incorrect: %+v", results[1])
	}
	if !results[2].IsCorrect {
		t.Fatalf("expected q3 correct: %+v", results[2])
	}
}

func TestScoreSubmissionMissingEntriesAreIncorrect(t *testing.T) {
	results, score, err := ScoreSubmission(scoringQuiz(), nil)
	if err != nil {
		t.Fatalf("ScoreSubmission failed: %v", err)
	}
	if score != 0 || len(results) != 3 {
		t.Fatalf("unexpected empty submission scoring: score=%d results=%d", score, len(results))
	}
}

func TestScoreSubmissionValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []SubmissionEntry
	}{
		{name: "unknown question", entries: []SubmissionEntry{{QuestionID: "nope", OptionID: strPtr("o1")}}},
		{name: "foreign option", entries: []SubmissionEntry{{QuestionID: "q1", OptionID: strPtr("o3")}}},
		{name: "duplicate question", entries: []SubmissionEntry{
			{QuestionID: "q1", OptionID: strPtr("o1")},
			{QuestionID: "q1", OptionID: strPtr("o2")},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ScoreSubmission(scoringQuiz(), tc.entries)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total int
		want         float64
	}{
		{score: 0, total: 0, want: 0},
		{score: 1, total: 3, want: 33.33},
		{score: 2, total: 3, want: 66.67},
		{score: 5, total: 5, want: 100},
	}
	for _, tc := range tests {
		if got := Percentage(tc.score, tc.total); got != tc.want {
			t.Fatalf("Percentage(%d, %d) = %v, want %v", tc.score, tc.total, got, tc.want)
		}
	}
}

func TestScoreBand(t *testing.T) {
	tests := []struct {
		percentage float64
		want       string
	}{
		{100, BandExcellent},
		{80, BandExcellent},
		{79.99, BandGood},
		{60, BandGood},
		{40, BandFair},
		{39.5, BandNeedsWork},
		{0, BandNeedsWork},
	}
	for _, tc := range tests {
		if got := ScoreBand(tc.percentage); got != tc.want {
			t.Fatalf("ScoreBand(%v) = %q, want %q", tc.percentage, got, tc.want)
		}
	}
}
