package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/enic-kz/portal/internal/core/domain"
	"github.com/enic-kz/portal/internal/core/ports"
)

const collectionQuestions = "questions"

type QuestionRepository struct {
	col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{col: db.Collection(collectionQuestions)}
}

type questionDoc struct {
	ID         string     `bson:"_id"`
	UserID     string     `bson:"user_id"`
	UserEmail  string     `bson:"user_email,omitempty"`
	Question   string     `bson:"question"`
	Answer     *string    `bson:"answer,omitempty"`
	Status     string     `bson:"status"`
	AnsweredBy string     `bson:"answered_by,omitempty"`
	AnsweredAt *time.Time `bson:"answered_at,omitempty"`
	CreatedAt  time.Time  `bson:"created_at"`
}

func (d questionDoc) toDomain() *domain.Question {
	return &domain.Question{
		ID:         d.ID,
		UserID:     d.UserID,
		UserEmail:  d.UserEmail,
		Question:   d.Question,
		Answer:     d.Answer,
		Status:     domain.QuestionStatus(d.Status),
		AnsweredBy: d.AnsweredBy,
		AnsweredAt: d.AnsweredAt,
		CreatedAt:  d.CreatedAt,
	}
}

func (r *QuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := questionDoc{
		ID:        q.ID,
		UserID:    q.UserID,
		UserEmail: q.UserEmail,
		Question:  q.Question,
		Answer:    q.Answer,
		Status:    string(q.Status),
		CreatedAt: q.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*domain.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc questionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *QuestionRepository) List(ctx context.Context, filter ports.QuestionListFilter) ([]*domain.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.UserID != "" {
		q["user_id"] = filter.UserID
	}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}

	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []questionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	out := make([]*domain.Question, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *QuestionRepository) Answer(ctx context.Context, id, answer, answeredBy string) (*domain.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"answer":      answer,
		"answered_by": answeredBy,
		"answered_at": time.Now().UTC(),
		"status":      string(domain.QuestionAnswered),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc questionDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("answer question: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates necessary indexes on the questions collection.
func (r *QuestionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
