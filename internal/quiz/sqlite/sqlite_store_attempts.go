package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"quiz-session/internal/quiz"
)

// SaveAttempt writes the attempt row and its per-question breakdown in a
// single transaction. Attempts are append-only.
func (s *SQLiteStore) SaveAttempt(ctx context.Context, result quiz.QuizResult) error {
	if result.AttemptID == "" {
		return errors.New("attempt id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO attempts (attempt_id, quiz_id, username_norm, score, total_questions, percentage, submitted_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.AttemptID,
		result.QuizID,
		result.Username,
		result.Score,
		result.TotalQuestions,
		result.Percentage,
		result.SubmittedAt.UTC().UnixNano(),
	); err != nil {
		return err
	}

	for idx, item := range result.Results {
		var selected sql.NullString
		if item.SelectedOptionID != nil {
			selected = sql.NullString{String: *item.SelectedOptionID, Valid: true}
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO attempt_answers (attempt_id, question_id, position, selected_option_id, correct_option_id, is_correct)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			result.AttemptID,
			item.QuestionID,
			idx,
			selected,
			item.CorrectOptionID,
			boolToInt(item.IsCorrect),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetAttempt(ctx context.Context, attemptID string) (quiz.QuizResult, error) {
	var (
		result          quiz.QuizResult
		submittedAtUnix int64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT a.attempt_id, a.quiz_id, COALESCE(q.title, ''), a.username_norm, a.score,
		        a.total_questions, a.percentage, a.submitted_at_unix
		 FROM attempts a
		 LEFT JOIN quizzes q ON q.quiz_id = a.quiz_id
		 WHERE a.attempt_id = ?`,
		attemptID,
	).Scan(
		&result.AttemptID,
		&result.QuizID,
		&result.QuizTitle,
		&result.Username,
		&result.Score,
		&result.TotalQuestions,
		&result.Percentage,
		&submittedAtUnix,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.QuizResult{}, quiz.ErrAttemptNotFound
		}
		return quiz.QuizResult{}, err
	}
	result.SubmittedAt = time.Unix(0, submittedAtUnix).UTC()

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT question_id, selected_option_id, correct_option_id, is_correct
		 FROM attempt_answers
		 WHERE attempt_id = ?
		 ORDER BY position ASC`,
		attemptID,
	)
	if err != nil {
		return quiz.QuizResult{}, err
	}
	defer rows.Close()

	result.Results = make([]quiz.QuestionResult, 0, result.TotalQuestions)
	for rows.Next() {
		var (
			item      quiz.QuestionResult
			selected  sql.NullString
			isCorrect int
		)
		if err := rows.Scan(&item.QuestionID, &selected, &item.CorrectOptionID, &isCorrect); err != nil {
			return quiz.QuizResult{}, err
		}
		if selected.Valid {
			value := selected.String
			item.SelectedOptionID = &value
		}
		item.IsCorrect = isCorrect != 0
		result.Results = append(result.Results, item)
	}

	return result, rows.Err()
}

func (s *SQLiteStore) ListAttemptsByUser(ctx context.Context, usernameNormalized string, limit int) ([]quiz.AttemptSummary, error) {
	query := `SELECT a.attempt_id, a.quiz_id, COALESCE(q.title, ''), a.score, a.total_questions,
	                 a.percentage, a.submitted_at_unix
	          FROM attempts a
	          LEFT JOIN quizzes q ON q.quiz_id = a.quiz_id
	          WHERE a.username_norm = ?
	          ORDER BY a.submitted_at_unix DESC, a.attempt_id ASC`
	args := []any{usernameNormalized}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := make([]quiz.AttemptSummary, 0)
	for rows.Next() {
		var (
			item            quiz.AttemptSummary
			submittedAtUnix int64
		)
		if err := rows.Scan(
			&item.AttemptID,
			&item.QuizID,
			&item.QuizTitle,
			&item.Score,
			&item.TotalQuestions,
			&item.Percentage,
			&submittedAtUnix,
		); err != nil {
			return nil, err
		}
		item.SubmittedAt = time.Unix(0, submittedAtUnix).UTC()
		attempts = append(attempts, item)
	}

	return attempts, rows.Err()
}
