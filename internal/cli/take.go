package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"quiz-session/internal/session"
)

func runTake(ctx context.Context, reader *bufio.Reader, out io.Writer, api takerAPI, quizID, serverURL string) error {
	s, err := session.Load(ctx, api, quizID)
	if err != nil {
		return err
	}

	loaded := s.Quiz()
	fmt.Fprintf(out, "%s (%s), %d questions\n", quizLabel(loaded.Title, loaded.QuizID), loaded.QuizID, s.QuestionCount())
	fmt.Fprintln(out, "Answer with a letter. Also: next, back, goto <n>, quit")

	for {
		switch s.Phase() {
		case session.PhaseTaking:
			printQuestion(out, s)
			fmt.Fprint(out, "answer> ")
			line, err := reader.ReadString('\n')
			if err != nil {
				if errors.Is(err, io.EOF) {
					fmt.Fprintln(out, "\nQuiz abandoned.")
					return nil
				}
				return err
			}
			if handleTakingInput(out, s, strings.TrimSpace(line)) {
				fmt.Fprintln(out, "Quiz abandoned.")
				return nil
			}

		case session.PhaseConfirmingSubmit:
			fmt.Fprintf(out, "\nAnswered %d of %d questions.\n", s.AnsweredCount(), s.QuestionCount())
			submit, err := promptYesNo(reader, out, "Submit now? (yes/no): ")
			if err != nil {
				if errors.Is(err, io.EOF) {
					fmt.Fprintln(out, "\nQuiz abandoned.")
					return nil
				}
				return err
			}
			if !submit {
				_ = s.CancelConfirmation()
				continue
			}

			if _, err := s.Submit(ctx); err != nil {
				// The session is back in confirmation, so the prompt doubles as a retry.
				fmt.Fprintf(out, "submit failed: %v\n", describeClientError(err, serverURL))
			}

		case session.PhaseSubmitted:
			result, _ := s.Result()
			printSubmitResult(out, loaded, result)
			stored, err := s.FetchResult(ctx)
			if err != nil {
				fmt.Fprintf(out, "stored result unavailable: %v\n", describeClientError(err, serverURL))
				return nil
			}
			fmt.Fprintf(out, "Saved at %s. Run: result %s\n", stored.SubmittedAt.Format(time.RFC3339), stored.AttemptID)
			return nil

		default:
			return nil
		}
	}
}

// handleTakingInput applies one line typed while answering. It reports
// whether the learner asked to quit.
func handleTakingInput(out io.Writer, s *session.Session, input string) bool {
	if input == "" {
		return false
	}

	fields := strings.Fields(strings.ToLower(input))
	switch fields[0] {
	case "quit":
		return true
	case "next":
		if !s.CurrentAnswered() {
			fmt.Fprintln(out, "Pick an answer first, or use goto <n> to move around.")
			return false
		}
		if err := s.Advance(); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	case "back":
		current := s.CurrentIndex()
		if current == 0 {
			fmt.Fprintln(out, "Already at the first question.")
			return false
		}
		if err := s.JumpTo(current - 1); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	case "goto":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: goto <n>")
			return false
		}
		number, err := strconv.Atoi(fields[1])
		if err != nil || s.JumpTo(number-1) != nil {
			fmt.Fprintf(out, "No question %s. Choose 1-%d.\n", fields[1], s.QuestionCount())
		}
	default:
		question := s.CurrentQuestion()
		idx, ok := parseOptionLetter(input, len(question.Options))
		if !ok {
			fmt.Fprintf(out, "Invalid input. Enter a letter A-%s, next, back, goto <n> or quit.\n", optionLetter(len(question.Options)-1))
			return false
		}
		if err := s.SelectAnswer(question.QuestionID, question.Options[idx].OptionID); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		if err := s.Advance(); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	return false
}
