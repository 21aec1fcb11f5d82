package domain

import "time"

// QuestionStatus is the lifecycle state of a user question.
type QuestionStatus string

const (
	QuestionPending  QuestionStatus = "PENDING"
	QuestionAnswered QuestionStatus = "ANSWERED"
)

// Question is an inquiry submitted by a user and answered by staff.
type Question struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	UserEmail  string         `json:"user_email,omitempty"`
	Question   string         `json:"question"`
	Answer     *string        `json:"answer"`
	Status     QuestionStatus `json:"status"`
	AnsweredBy string         `json:"answered_by,omitempty"`
	AnsweredAt *time.Time     `json:"answered_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
