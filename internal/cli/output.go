package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"quiz-session/internal/quiz"
	"quiz-session/internal/session"
)

const progressBarWidth = 20

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  quizzes [limit]")
	fmt.Fprintln(out, "  new [count] [title]")
	fmt.Fprintln(out, "  take <quiz_id>")
	fmt.Fprintln(out, "  result <attempt_id>")
	fmt.Fprintln(out, "  history [limit]")
	fmt.Fprintln(out, "  stats")
	fmt.Fprintln(out, "  exit")
}

func printQuestion(out io.Writer, s *session.Session) {
	question := s.CurrentQuestion()
	chosen, _ := s.Answer(question.QuestionID)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s question %d/%d, %d answered\n",
		progressBar(s.Progress(), progressBarWidth),
		s.CurrentIndex()+1,
		s.QuestionCount(),
		s.AnsweredCount(),
	)
	fmt.Fprintln(out, questionMap(s))
	fmt.Fprintf(out, "%s\n\n", question.Prompt)
	for idx, option := range question.Options {
		marker := " "
		if option.OptionID == chosen {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s. %s\n", marker, optionLetter(idx), option.Text)
	}
	fmt.Fprintln(out)
}

// questionMap renders one cell per question: "*" answered, "." skipped,
// brackets around the current one.
func questionMap(s *session.Session) string {
	state := s.State()
	loaded := s.Quiz()
	var b strings.Builder
	for idx, question := range loaded.Questions {
		mark := "."
		if _, ok := state.Answers[question.QuestionID]; ok {
			mark = "*"
		}
		if idx == state.CurrentIndex {
			b.WriteString("[" + mark + "]")
			continue
		}
		b.WriteString(" " + mark + " ")
	}
	return b.String()
}

// progressBar renders percent (0-100) as a fixed-width bar.
func progressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(math.Round(percent / 100 * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "] " +
		strconv.Itoa(int(math.Round(percent))) + "%"
}

func printSubmitResult(out io.Writer, q quiz.Quiz, result quiz.SubmitResult) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Score: %d/%d (%s%%, %s)\n",
		result.Score, result.TotalQuestions, formatPercentage(result.Percentage), quiz.ScoreBand(result.Percentage))
	fmt.Fprintf(out, "attempt_id=%s\n", result.AttemptID)

	for _, item := range result.Results {
		idx := q.QuestionIndex(item.QuestionID)
		if idx < 0 {
			fmt.Fprintf(out, "- %s %s\n", resultStatus(item), item.QuestionID)
			continue
		}
		question := q.Questions[idx]
		fmt.Fprintf(out, "%d. %s %s\n", idx+1, resultStatus(item), question.Prompt)
		if !item.IsCorrect {
			fmt.Fprintf(out, "   correct answer: %s\n", optionDisplay(question, item.CorrectOptionID))
		}
	}
}

func printStoredResult(out io.Writer, result quiz.QuizResult) {
	fmt.Fprintf(out, "Attempt %s on %s\n", result.AttemptID, quizLabel(result.QuizTitle, result.QuizID))
	fmt.Fprintf(out, "Score: %d/%d (%s%%, %s) submitted %s\n",
		result.Score,
		result.TotalQuestions,
		formatPercentage(result.Percentage),
		quiz.ScoreBand(result.Percentage),
		result.SubmittedAt.Format(time.RFC3339),
	)
	for idx, item := range result.Results {
		fmt.Fprintf(out, "%d. %s %s\n", idx+1, resultStatus(item), item.QuestionID)
	}
}

func printStats(out io.Writer, stats quiz.UserStats) {
	fmt.Fprintf(out, "Stats for %s\n", stats.Username)
	if stats.AttemptCount == 0 {
		fmt.Fprintln(out, "No attempts yet.")
		return
	}
	fmt.Fprintf(out, "attempts: %d\n", stats.AttemptCount)
	fmt.Fprintf(out, "average: %s%%\n", formatPercentage(stats.AveragePercentage))
	fmt.Fprintf(out, "best: %s%%\n", formatPercentage(stats.BestPercentage))
	fmt.Fprintf(out, "streak: %d day(s), longest %d\n", stats.CurrentStreak, stats.LongestStreak)
	if stats.LastAttemptAt != nil {
		fmt.Fprintf(out, "last attempt: %s\n", stats.LastAttemptAt.Format(time.RFC3339))
	}

	bands := make([]string, 0, len(stats.Bands))
	for band := range stats.Bands {
		bands = append(bands, band)
	}
	sort.Strings(bands)
	parts := make([]string, 0, len(bands))
	for _, band := range bands {
		parts = append(parts, fmt.Sprintf("%s=%d", band, stats.Bands[band]))
	}
	fmt.Fprintf(out, "bands: %s\n", strings.Join(parts, " "))
}

func resultStatus(item quiz.QuestionResult) string {
	switch {
	case item.SelectedOptionID == nil:
		return "[skipped]"
	case item.IsCorrect:
		return "[correct]"
	default:
		return "[wrong]"
	}
}

func optionDisplay(question quiz.Question, optionID string) string {
	for idx, option := range question.Options {
		if option.OptionID == optionID {
			return fmt.Sprintf("%s. %s", optionLetter(idx), option.Text)
		}
	}
	return "unknown"
}

func quizLabel(title, quizID string) string {
	if strings.TrimSpace(title) == "" {
		return quizID
	}
	return title
}

func optionLetter(idx int) string {
	return string(rune('A' + idx))
}

func parseOptionLetter(input string, optionCount int) (int, bool) {
	answer := strings.ToUpper(strings.TrimSpace(input))
	if len(answer) != 1 || optionCount < 1 {
		return -1, false
	}
	idx := int(answer[0] - 'A')
	if idx < 0 || idx >= optionCount {
		return -1, false
	}
	return idx, true
}

func formatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func parsePositiveLimit(args []string, index int, defaultValue int) (int, error) {
	if len(args) <= index {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(args[index])
	if err != nil || value <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return value, nil
}

func promptYesNo(reader *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	for {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(out, "Please answer yes or no.")
		}
	}
}

func describeClientError(err error, serverURL string) error {
	switch {
	case errors.Is(err, quiz.ErrNetwork):
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	case errors.Is(err, quiz.ErrInvalidUsername):
		return errors.New("start quiz-cli with -username to use history and stats")
	default:
		return err
	}
}
