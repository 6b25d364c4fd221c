package handler

import (
	"time"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type postResponse struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type actionResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Replayed bool   `json:"replayed,omitempty"`
}

type replyRequest struct {
	Message string `json:"message" validate:"required"`
}

type batchActionRequest struct {
	Action  string `json:"action"  validate:"required,oneof=like repost reply"`
	PostID  string `json:"post_id" validate:"required"`
	Message string `json:"message" validate:"required_if=Action reply"`
}

type batchRequest struct {
	Actions []batchActionRequest `json:"actions" validate:"required,min=1,max=100,dive"`
}

type batchResponse struct {
	BatchID  string `json:"batch_id"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

type summaryResponse struct {
	Source   string                  `json:"source"`
	Count    int                     `json:"count"`
	Accounts []domain.TrackedAccount `json:"accounts"`
}

func toPostResponse(p domain.Post) postResponse {
	resp := postResponse{ID: p.ID, Text: p.Text}
	if p.HasTimestamp() {
		ts := p.CreatedAt.UTC()
		resp.CreatedAt = &ts
	}
	return resp
}
