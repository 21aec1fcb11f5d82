package ports

import (
	"context"

	"github.com/enic-kz/portal/internal/core/domain"
)

// QuestionService handles the question inbox.
type QuestionService interface {
	List(ctx context.Context, actor *domain.Identity) ([]*domain.Question, error)
	Ask(ctx context.Context, actor *domain.Identity, text string) (*domain.Question, error)
	Answer(ctx context.Context, actor *domain.Identity, questionID, answer string) (*domain.Question, error)
}
