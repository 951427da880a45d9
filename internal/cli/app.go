package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quiz-session/internal/quiz"
	"quiz-session/internal/quizclient"
	"quiz-session/internal/session"
)

const (
	defaultListLimit   = 10
	defaultHTTPTimeout = 10 * time.Second
)

type Config struct {
	Username    string
	ServerURL   string
	ListLimit   int
	HTTPTimeout time.Duration
}

// takerAPI is what the terminal needs from the quiz service.
type takerAPI interface {
	session.QuizClient
	ListQuizzes(ctx context.Context, limit int) ([]quiz.QuizMetadata, error)
	CreateQuiz(ctx context.Context, title string, questionCount int) (quiz.QuizMetadata, error)
	ListAttempts(ctx context.Context, limit int) ([]quiz.AttemptSummary, error)
	GetStats(ctx context.Context) (quiz.UserStats, error)
}

func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := quizclient.NewHTTPClient(cfg.ServerURL, &http.Client{Timeout: timeout}).
		WithUsername(cfg.Username)

	username := client.Username()
	if username == "" {
		username = "(anonymous)"
	}
	fmt.Fprintf(out, "quiz-cli\nusername=%s\nserver=%s\n\n", username, client.BaseURL())

	return runREPL(ctx, bufio.NewReader(in), out, client, client.BaseURL(), cfg.ListLimit)
}

func runREPL(ctx context.Context, reader *bufio.Reader, out io.Writer, api takerAPI, serverURL string, listLimit int) error {
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		var cmdErr error
		switch command {
		case "help":
			printHelp(out)
		case "exit":
			return nil
		case "quizzes":
			limit, parseErr := parsePositiveLimit(args, 1, listLimit)
			if parseErr != nil {
				fmt.Fprintf(out, "invalid quizzes limit: %v\n", parseErr)
				continue
			}
			cmdErr = runList(ctx, out, api, limit)
		case "new":
			cmdErr = runNew(ctx, out, api, args[1:])
		case "take":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: take <quiz_id>")
				continue
			}
			cmdErr = runTake(ctx, reader, out, api, args[1], serverURL)
		case "result":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: result <attempt_id>")
				continue
			}
			cmdErr = runResult(ctx, out, api, args[1])
		case "history":
			limit, parseErr := parsePositiveLimit(args, 1, listLimit)
			if parseErr != nil {
				fmt.Fprintf(out, "invalid history limit: %v\n", parseErr)
				continue
			}
			cmdErr = runHistory(ctx, out, api, limit)
		case "stats":
			cmdErr = runStats(ctx, out, api)
		default:
			fmt.Fprintln(out, "unknown command. type 'help' for usage.")
		}

		if cmdErr != nil {
			fmt.Fprintf(out, "error: %v\n", describeClientError(cmdErr, serverURL))
		}
	}
}

func runList(ctx context.Context, out io.Writer, api takerAPI, limit int) error {
	quizzes, err := api.ListQuizzes(ctx, limit)
	if err != nil {
		return err
	}

	if len(quizzes) == 0 {
		fmt.Fprintln(out, "No quizzes yet. Create one with 'new'.")
		return nil
	}

	fmt.Fprintln(out, "Quizzes:")
	for idx, item := range quizzes {
		fmt.Fprintf(out, "%d. %s %q (%d questions, created %s)\n",
			idx+1,
			item.QuizID,
			item.Title,
			item.QuestionCount,
			item.CreatedAt.Format(time.RFC3339),
		)
	}
	return nil
}

// runNew handles "new [count] [title...]".
func runNew(ctx context.Context, out io.Writer, api takerAPI, args []string) error {
	count := 0
	if len(args) > 0 {
		if parsed, err := strconv.Atoi(args[0]); err == nil {
			if parsed <= 0 {
				fmt.Fprintln(out, "question count must be a positive integer")
				return nil
			}
			count = parsed
			args = args[1:]
		}
	}
	title := strings.Join(args, " ")

	created, err := api.CreateQuiz(ctx, title, count)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Created quiz %s %q with %d questions. Start it with: take %s\n",
		created.QuizID, created.Title, created.QuestionCount, created.QuizID)
	return nil
}

func runResult(ctx context.Context, out io.Writer, api takerAPI, attemptID string) error {
	result, err := api.FetchResults(ctx, attemptID)
	if err != nil {
		return err
	}
	printStoredResult(out, result)
	return nil
}

func runHistory(ctx context.Context, out io.Writer, api takerAPI, limit int) error {
	attempts, err := api.ListAttempts(ctx, limit)
	if err != nil {
		return err
	}

	if len(attempts) == 0 {
		fmt.Fprintln(out, "No attempts yet.")
		return nil
	}

	fmt.Fprintln(out, "Recent attempts:")
	for idx, item := range attempts {
		fmt.Fprintf(out, "%d. %s %s %d/%d (%s%%, %s) at %s\n",
			idx+1,
			item.AttemptID,
			quizLabel(item.QuizTitle, item.QuizID),
			item.Score,
			item.TotalQuestions,
			formatPercentage(item.Percentage),
			quiz.ScoreBand(item.Percentage),
			item.SubmittedAt.Format(time.RFC3339),
		)
	}
	return nil
}

func runStats(ctx context.Context, out io.Writer, api takerAPI) error {
	stats, err := api.GetStats(ctx)
	if err != nil {
		return err
	}
	printStats(out, stats)
	return nil
}
