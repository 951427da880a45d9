package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"quiz-session/internal/quiz"
)

// CreateQuiz stores the quiz with its questions and options in one
// transaction. Quizzes are immutable, so an existing id is rejected.
func (s *SQLiteStore) CreateQuiz(ctx context.Context, q quiz.Quiz) error {
	if q.QuizID == "" {
		return errors.New("quiz id is required")
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO quizzes (quiz_id, title, created_at_unix, question_count) VALUES (?, ?, ?, ?)`,
		q.QuizID,
		q.Title,
		q.CreatedAt.UnixNano(),
		len(q.Questions),
	); err != nil {
		return err
	}

	for questionPos, question := range q.Questions {
		if question.QuestionID == "" {
			question.QuestionID = quiz.MakeQuestionID(question)
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO questions (quiz_id, question_id, position, prompt) VALUES (?, ?, ?, ?)`,
			q.QuizID,
			question.QuestionID,
			questionPos,
			question.Prompt,
		); err != nil {
			return err
		}

		for optionPos, option := range question.Options {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO options (quiz_id, question_id, option_id, position, text, is_correct) VALUES (?, ?, ?, ?, ?, ?)`,
				q.QuizID,
				question.QuestionID,
				option.OptionID,
				optionPos,
				option.Text,
				boolToInt(option.IsCorrect),
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetQuiz(ctx context.Context, quizID string) (quiz.Quiz, error) {
	var (
		loaded        quiz.Quiz
		createdAtUnix int64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT quiz_id, title, created_at_unix FROM quizzes WHERE quiz_id = ?`,
		quizID,
	).Scan(&loaded.QuizID, &loaded.Title, &createdAtUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Quiz{}, quiz.ErrQuizNotFound
		}
		return quiz.Quiz{}, err
	}
	loaded.CreatedAt = time.Unix(0, createdAtUnix).UTC()

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT q.question_id, q.prompt, o.option_id, o.text, o.is_correct
		 FROM questions q
		 JOIN options o ON o.quiz_id = q.quiz_id AND o.question_id = q.question_id
		 WHERE q.quiz_id = ?
		 ORDER BY q.position ASC, o.position ASC`,
		quizID,
	)
	if err != nil {
		return quiz.Quiz{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			questionID string
			prompt     string
			option     quiz.Option
			isCorrect  int
		)
		if err := rows.Scan(&questionID, &prompt, &option.OptionID, &option.Text, &isCorrect); err != nil {
			return quiz.Quiz{}, err
		}
		option.IsCorrect = isCorrect != 0

		last := len(loaded.Questions) - 1
		if last < 0 || loaded.Questions[last].QuestionID != questionID {
			loaded.Questions = append(loaded.Questions, quiz.Question{
				QuestionID: questionID,
				Prompt:     prompt,
			})
			last++
		}
		loaded.Questions[last].Options = append(loaded.Questions[last].Options, option)
	}

	return loaded, rows.Err()
}

func (s *SQLiteStore) ListQuizzes(ctx context.Context, limit int) ([]quiz.QuizMetadata, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT quiz_id, title, question_count, created_at_unix
		 FROM quizzes
		 ORDER BY created_at_unix DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := make([]quiz.QuizMetadata, 0)
	for rows.Next() {
		var (
			item          quiz.QuizMetadata
			createdAtUnix int64
		)
		if err := rows.Scan(&item.QuizID, &item.Title, &item.QuestionCount, &createdAtUnix); err != nil {
			return nil, err
		}
		item.CreatedAt = time.Unix(0, createdAtUnix).UTC()
		quizzes = append(quizzes, item)
	}

	return quizzes, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
