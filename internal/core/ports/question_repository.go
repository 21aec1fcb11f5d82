package ports

import (
	"context"

	"github.com/enic-kz/portal/internal/core/domain"
)

// QuestionListFilter narrows List. An empty UserID lists every question.
type QuestionListFilter struct {
	UserID string
	Status domain.QuestionStatus
}

// QuestionRepository persists user questions.
type QuestionRepository interface {
	Create(ctx context.Context, q *domain.Question) error
	FindByID(ctx context.Context, id string) (*domain.Question, error)
	// List returns questions newest first.
	List(ctx context.Context, filter QuestionListFilter) ([]*domain.Question, error)
	// Answer stores the answer, marks the question ANSWERED and returns it.
	Answer(ctx context.Context, id, answer, answeredBy string) (*domain.Question, error)
}
