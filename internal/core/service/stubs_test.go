package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/enic-kz/portal/internal/core/domain"
	"github.com/enic-kz/portal/internal/core/ports"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) get(id string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneUser(r.users[id])
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, filter ports.UserListFilter) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Upsert(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[user.ID]; ok {
		existing.Email = user.Email
		existing.UpdatedAt = user.UpdatedAt
		return nil
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) CompareAndSetRole(_ context.Context, id string, from, to domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if u.Role != from {
		return nil, domain.ErrConflict
	}
	u.Role = to
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetStatus(_ context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Status = status
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubQuestionRepo struct {
	mu        sync.Mutex
	questions map[string]*domain.Question
}

func newStubQuestionRepo(qs ...*domain.Question) *stubQuestionRepo {
	r := &stubQuestionRepo{questions: make(map[string]*domain.Question)}
	for _, q := range qs {
		r.questions[q.ID] = cloneQuestion(q)
	}
	return r
}

func cloneQuestion(q *domain.Question) *domain.Question {
	if q == nil {
		return nil
	}
	clone := *q
	return &clone
}

func (r *stubQuestionRepo) Create(_ context.Context, q *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (r *stubQuestionRepo) FindByID(_ context.Context, id string) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

func (r *stubQuestionRepo) List(_ context.Context, filter ports.QuestionListFilter) ([]*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Question
	for _, q := range r.questions {
		if filter.UserID != "" && q.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		out = append(out, cloneQuestion(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubQuestionRepo) Answer(_ context.Context, id, answer, answeredBy string) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	now := time.Now().UTC()
	q.Answer = &answer
	q.AnsweredBy = answeredBy
	q.AnsweredAt = &now
	q.Status = domain.QuestionAnswered
	return cloneQuestion(q), nil
}

type stubIssuer struct {
	err error
}

func (s stubIssuer) Issue(user *domain.User) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return "token-" + user.ID, time.Now().Add(time.Hour), nil
}

func account(id string, role domain.Role) *domain.User {
	return &domain.User{
		ID:     id,
		Email:  id + "@example.kz",
		Role:   role,
		Status: domain.StatusActive,
	}
}

func blocked(u *domain.User) *domain.User {
	u.Status = domain.StatusBlocked
	return u
}

// fixtureUsers is the account set used across the admin scenarios.
func fixtureUsers() *stubUserRepo {
	return newStubUserRepo(
		account("u1", domain.RoleUser),
		account("u2", domain.RoleUser),
		account("m1", domain.RoleModerator),
		account("m2", domain.RoleModerator),
		account("a1", domain.RoleAdmin),
		account("a2", domain.RoleAdmin),
		account("root1", domain.RoleRootAdmin),
		account("root2", domain.RoleRootAdmin),
	)
}

func as(id string, role domain.Role) *domain.Identity {
	return account(id, role).Identity()
}
