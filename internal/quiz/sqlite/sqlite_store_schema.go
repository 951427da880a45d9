package sqlite

import (
	"context"
)

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	// No FK constraints: quizzes and attempts are written in single
	// transactions owned by this package.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			quiz_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at_unix INTEGER NOT NULL,
			question_count INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			quiz_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			prompt TEXT NOT NULL,
			PRIMARY KEY (quiz_id, question_id),
			UNIQUE (quiz_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS options (
			quiz_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			option_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			is_correct INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (quiz_id, question_id, option_id)
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			attempt_id TEXT PRIMARY KEY,
			quiz_id TEXT NOT NULL,
			username_norm TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			percentage REAL NOT NULL,
			submitted_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempt_answers (
			attempt_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			-- NULL when the question was skipped.
			selected_option_id TEXT,
			correct_option_id TEXT NOT NULL,
			is_correct INTEGER NOT NULL,
			PRIMARY KEY (attempt_id, question_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_created_at ON quizzes(created_at_unix DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_user_submitted ON attempts(username_norm, submitted_at_unix DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
