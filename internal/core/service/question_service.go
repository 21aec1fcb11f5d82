package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/enic-kz/portal/internal/core/access"
	"github.com/enic-kz/portal/internal/core/domain"
	"github.com/enic-kz/portal/internal/core/ports"
)

// QuestionService implements the question inbox: users ask, staff answer.
type QuestionService struct {
	questions ports.QuestionRepository
	users     ports.UserRepository
	logger    zerolog.Logger
}

func NewQuestionService(questions ports.QuestionRepository, users ports.UserRepository, logger zerolog.Logger) *QuestionService {
	return &QuestionService{questions: questions, users: users, logger: logger}
}

// List returns every question for staff and only the actor's own otherwise.
func (s *QuestionService) List(ctx context.Context, actor *domain.Identity) ([]*domain.Question, error) {
	current, err := loadActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}

	owner, err := access.QuestionScope(current)
	if err != nil {
		return nil, err
	}

	qs, err := s.questions.List(ctx, ports.QuestionListFilter{UserID: owner})
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return qs, nil
}

// Ask records a new pending question owned by actor.
func (s *QuestionService) Ask(ctx context.Context, actor *domain.Identity, text string) (*domain.Question, error) {
	current, err := loadActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	if err := access.Require(current, access.ActionAsk); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidRequest)
	}

	q := &domain.Question{
		ID:        uuid.NewString(),
		UserID:    current.UserID,
		UserEmail: current.Email,
		Question:  text,
		Status:    domain.QuestionPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.questions.Create(ctx, q); err != nil {
		s.logger.Error().Err(err).Str("user_id", current.UserID).Msg("failed to create question")
		return nil, fmt.Errorf("create question: %w", err)
	}

	s.logger.Info().Str("question_id", q.ID).Str("user_id", current.UserID).Msg("question created")
	return q, nil
}

// Answer stores a staff answer and marks the question ANSWERED. Answering
// again replaces the previous answer.
func (s *QuestionService) Answer(ctx context.Context, actor *domain.Identity, questionID, answer string) (*domain.Question, error) {
	current, err := loadActor(ctx, s.users, actor)
	if err != nil {
		return nil, auditAction(s.logger, access.ActionAnswer, actor, questionID, err)
	}
	if err := access.CanAnswer(current); err != nil {
		return nil, auditAction(s.logger, access.ActionAnswer, current, questionID, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("empty answer: %w", domain.ErrInvalidRequest)
	}

	q, err := s.questions.Answer(ctx, questionID, answer, current.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrQuestionNotFound) {
			err = fmt.Errorf("answer question: %w", err)
		}
		return nil, auditAction(s.logger, access.ActionAnswer, current, questionID, err)
	}

	auditAction(s.logger, access.ActionAnswer, current, questionID, nil)
	return q, nil
}
