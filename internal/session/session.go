// Package session tracks one learner's pass through a loaded quiz: the
// question pointer, the chosen options and the confirm/submit phases.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"quiz-session/internal/quiz"
)

type Phase int

const (
	PhaseTaking Phase = iota
	PhaseConfirmingSubmit
	PhaseSubmitting
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseTaking:
		return "taking"
	case PhaseConfirmingSubmit:
		return "confirming_submit"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	ErrEmptyQuiz        = errors.New("quiz has no questions")
	ErrUnknownQuestion  = errors.New("question is not part of this quiz")
	ErrUnknownOption    = errors.New("option does not belong to this question")
	ErrIndexOutOfRange  = errors.New("question index out of range")
	ErrNotTaking        = errors.New("session is not accepting answers")
	ErrNotConfirming    = errors.New("session is not awaiting submit confirmation")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrAlreadySubmitted = errors.New("session already submitted")
	ErrNotSubmitted     = errors.New("session has not been submitted")
)

// QuizClient is the remote side of a session.
type QuizClient interface {
	FetchQuiz(ctx context.Context, quizID string) (quiz.Quiz, error)
	SubmitAnswers(ctx context.Context, quizID string, submission []quiz.SubmissionEntry) (quiz.SubmitResult, error)
	FetchResults(ctx context.Context, attemptID string) (quiz.QuizResult, error)
}

// State is a snapshot of the session. Answers maps question id to option id.
type State struct {
	CurrentIndex int
	Answers      map[string]string
	Phase        Phase
}

type Session struct {
	client QuizClient
	quiz   quiz.Quiz

	mu     sync.Mutex
	state  State
	result *quiz.SubmitResult
}

// New starts a session at the first question with no answers.
func New(q quiz.Quiz, client QuizClient) (*Session, error) {
	if len(q.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	return &Session{
		client: client,
		quiz:   q,
		state: State{
			CurrentIndex: 0,
			Answers:      make(map[string]string, len(q.Questions)),
			Phase:        PhaseTaking,
		},
	}, nil
}

// Load fetches quizID and starts a session over it. Client errors are
// returned unchanged.
func Load(ctx context.Context, client QuizClient, quizID string) (*Session, error) {
	loaded, err := client.FetchQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return New(loaded, client)
}

func (s *Session) Quiz() quiz.Quiz {
	return s.quiz
}

func (s *Session) QuestionCount() int {
	return len(s.quiz.Questions)
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase
}

func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentIndex
}

func (s *Session) CurrentQuestion() quiz.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz.Questions[s.state.CurrentIndex]
}

// Answer returns the option chosen for questionID, if any.
func (s *Session) Answer(questionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	optionID, ok := s.state.Answers[questionID]
	return optionID, ok
}

func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Answers)
}

// CurrentAnswered reports whether the question under the pointer has an
// answer. Callers use it to gate Advance.
func (s *Session) CurrentAnswered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.state.Answers[s.quiz.Questions[s.state.CurrentIndex].QuestionID]
	return ok
}

// State returns a copy; mutating it does not affect the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	answers := make(map[string]string, len(s.state.Answers))
	for k, v := range s.state.Answers {
		answers[k] = v
	}
	return State{
		CurrentIndex: s.state.CurrentIndex,
		Answers:      answers,
		Phase:        s.state.Phase,
	}
}

// Result is the scored submission, available once the phase is Submitted.
func (s *Session) Result() (quiz.SubmitResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return quiz.SubmitResult{}, false
	}
	return *s.result, true
}

// SelectAnswer records optionID for questionID, replacing any earlier choice.
func (s *Session) SelectAnswer(questionID, optionID string) error {
	idx := s.quiz.QuestionIndex(questionID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if !s.quiz.Questions[idx].HasOption(optionID) {
		return fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase != PhaseTaking {
		return ErrNotTaking
	}
	s.state.Answers[questionID] = optionID
	return nil
}

// Advance moves to the next question, or into confirmation from the last one.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase != PhaseTaking {
		return ErrNotTaking
	}
	if s.state.CurrentIndex < len(s.quiz.Questions)-1 {
		s.state.CurrentIndex++
		return nil
	}
	s.state.Phase = PhaseConfirmingSubmit
	return nil
}

func (s *Session) JumpTo(index int) error {
	if index < 0 || index >= len(s.quiz.Questions) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(s.quiz.Questions))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase != PhaseTaking {
		return ErrNotTaking
	}
	s.state.CurrentIndex = index
	return nil
}

func (s *Session) CancelConfirmation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase != PhaseConfirmingSubmit {
		return ErrNotConfirming
	}
	s.state.Phase = PhaseTaking
	return nil
}

// Progress is the share of the quiz reached by the pointer, in percent.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.state.CurrentIndex+1) * 100 / float64(len(s.quiz.Questions))
}

// BuildSubmission returns one entry per question in quiz order. Skipped
// questions carry a nil OptionID.
func (s *Session) BuildSubmission() []quiz.SubmissionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildSubmissionLocked()
}

func (s *Session) buildSubmissionLocked() []quiz.SubmissionEntry {
	entries := make([]quiz.SubmissionEntry, 0, len(s.quiz.Questions))
	for _, question := range s.quiz.Questions {
		entry := quiz.SubmissionEntry{QuestionID: question.QuestionID}
		if optionID, ok := s.state.Answers[question.QuestionID]; ok {
			selected := optionID
			entry.OptionID = &selected
		}
		entries = append(entries, entry)
	}
	return entries
}

// Submit sends the answers for scoring. It is only valid while confirming;
// on failure the session returns to confirmation and the client error is
// returned as is.
func (s *Session) Submit(ctx context.Context) (quiz.SubmitResult, error) {
	s.mu.Lock()
	switch s.state.Phase {
	case PhaseConfirmingSubmit:
	case PhaseSubmitting:
		s.mu.Unlock()
		return quiz.SubmitResult{}, ErrSubmitInProgress
	case PhaseSubmitted:
		s.mu.Unlock()
		return quiz.SubmitResult{}, ErrAlreadySubmitted
	default:
		s.mu.Unlock()
		return quiz.SubmitResult{}, ErrNotConfirming
	}
	s.state.Phase = PhaseSubmitting
	submission := s.buildSubmissionLocked()
	s.mu.Unlock()

	result, err := s.client.SubmitAnswers(ctx, s.quiz.QuizID, submission)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.Phase = PhaseConfirmingSubmit
		return quiz.SubmitResult{}, err
	}
	s.state.Phase = PhaseSubmitted
	s.result = &result
	return result, nil
}

// FetchResult loads the stored result for the submitted attempt.
func (s *Session) FetchResult(ctx context.Context) (quiz.QuizResult, error) {
	s.mu.Lock()
	if s.state.Phase != PhaseSubmitted || s.result == nil {
		s.mu.Unlock()
		return quiz.QuizResult{}, ErrNotSubmitted
	}
	attemptID := s.result.AttemptID
	s.mu.Unlock()

	return s.client.FetchResults(ctx, attemptID)
}
