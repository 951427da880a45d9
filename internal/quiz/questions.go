package quiz

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"quiz-session/internal/opentdb"
)

type Option struct {
	OptionID string
	Text     string
	// IsCorrect is only populated on the service side; quizzes decoded by the
	// taking client never carry it.
	IsCorrect bool
}

type Question struct {
	QuestionID string
	Prompt     string
	Options    []Option
}

type Quiz struct {
	QuizID    string
	Title     string
	CreatedAt time.Time
	Questions []Question
}

// SubmissionEntry pairs a question with the chosen option. OptionID is nil
// when the learner skipped the question.
type SubmissionEntry struct {
	QuestionID string  `json:"question_id"`
	OptionID   *string `json:"option_id"`
}

type QuestionResult struct {
	QuestionID       string  `json:"question_id"`
	SelectedOptionID *string `json:"selected_option_id"`
	CorrectOptionID  string  `json:"correct_option_id"`
	IsCorrect        bool    `json:"is_correct"`
}

type SubmitResult struct {
	AttemptID      string           `json:"attempt_id"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	Percentage     float64          `json:"percentage"`
	Results        []QuestionResult `json:"results"`
}

func (q Quiz) Metadata() QuizMetadata {
	return QuizMetadata{
		QuizID:        q.QuizID,
		Title:         q.Title,
		QuestionCount: len(q.Questions),
		CreatedAt:     q.CreatedAt,
	}
}

// QuestionIndex returns the position of questionID in the quiz or -1.
func (q Quiz) QuestionIndex(questionID string) int {
	for idx, question := range q.Questions {
		if question.QuestionID == questionID {
			return idx
		}
	}
	return -1
}

func (q Question) HasOption(optionID string) bool {
	for _, option := range q.Options {
		if option.OptionID == optionID {
			return true
		}
	}
	return false
}

func (q Question) CorrectOptionID() string {
	for _, option := range q.Options {
		if option.IsCorrect {
			return option.OptionID
		}
	}
	return ""
}

func BuildQuestions(raw []opentdb.RawQuestion) []Question {
	questions := make([]Question, 0, len(raw))
	for _, item := range raw {
		question := buildQuestion(item)
		if len(question.Options) < 2 {
			continue
		}
		question.QuestionID = MakeQuestionID(question)
		for idx := range question.Options {
			question.Options[idx].OptionID = makeOptionID(question.QuestionID, idx)
		}
		questions = append(questions, question)
	}
	return questions
}

func MakeQuestionID(question Question) string {
	var keyBuilder strings.Builder
	keyBuilder.WriteString(question.Prompt)
	for _, option := range question.Options {
		keyBuilder.WriteString("|")
		keyBuilder.WriteString(option.Text)
	}

	hash := sha1.Sum([]byte(keyBuilder.String()))
	return "q_" + hex.EncodeToString(hash[:])[:12]
}

func makeOptionID(questionID string, index int) string {
	return questionID + "_o" + strconv.Itoa(index+1)
}

func buildQuestion(raw opentdb.RawQuestion) Question {
	options := make([]Option, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		options = append(options, Option{
			Text:      html.UnescapeString(incorrect),
			IsCorrect: false,
		})
	}

	options = append(options, Option{
		Text:      html.UnescapeString(raw.CorrectAnswer),
		IsCorrect: true,
	})

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		Prompt:  html.UnescapeString(raw.Question),
		Options: options,
	}
}
