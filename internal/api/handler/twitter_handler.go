package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
	"github.com/tweetfi/tweetfi-service/internal/core/ports"
)

const idempotencyHeader = "Idempotency-Key"

var errInvalidPayload = errors.New("invalid payload")

var actionMessages = map[domain.ActionKind][2]string{
	domain.ActionLike:   {"post liked", "failed to like post"},
	domain.ActionRepost: {"post reposted", "failed to repost"},
	domain.ActionReply:  {"reply sent", "failed to reply to post"},
}

// TwitterHandler exposes the platform client to gateway callers.
type TwitterHandler struct {
	actions  ports.ActionService
	queue    ports.ActionQueue
	accounts ports.AccountRepository
	source   string
	log      zerolog.Logger
}

// NewTwitterHandler wires the handler. source names the account source
// reported by Summary ("env" or "mongo").
func NewTwitterHandler(actions ports.ActionService, queue ports.ActionQueue, accounts ports.AccountRepository, source string, log zerolog.Logger) *TwitterHandler {
	return &TwitterHandler{
		actions:  actions,
		queue:    queue,
		accounts: accounts,
		source:   source,
		log:      log,
	}
}

// Latest handles GET /api/twitter/latest/:username.
//
// @Summary      Latest post of an account
// @Tags         twitter
// @Produce      json
// @Param        username  path      string  true  "Account handle"
// @Success      200       {object}  postResponse
// @Failure      404       {object}  messageResponse
// @Router       /api/twitter/latest/{username} [get]
func (h *TwitterHandler) Latest(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "no post found: empty username"})
	}

	post, ok := h.actions.LatestPost(c.Request().Context(), username)
	if !ok {
		return c.JSON(http.StatusNotFound, messageResponse{Message: fmt.Sprintf("no post found for @%s", username)})
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Like handles POST /api/twitter/like/:tweetId.
//
// @Summary      Like a post as the configured identity
// @Tags         twitter
// @Produce      json
// @Param        tweetId          path      string  true   "Post id"
// @Param        Idempotency-Key  header    string  false  "Replay a previous success instead of calling the platform"
// @Success      200              {object}  actionResponse
// @Failure      400              {object}  actionResponse
// @Router       /api/twitter/like/{tweetId} [post]
func (h *TwitterHandler) Like(c echo.Context) error {
	return h.perform(c, domain.ActionLike, "")
}

// Retweet handles POST /api/twitter/retweet/:tweetId.
//
// @Summary      Repost a post as the configured identity
// @Tags         twitter
// @Produce      json
// @Param        tweetId          path      string  true   "Post id"
// @Param        Idempotency-Key  header    string  false  "Replay a previous success instead of calling the platform"
// @Success      200              {object}  actionResponse
// @Failure      400              {object}  actionResponse
// @Router       /api/twitter/retweet/{tweetId} [post]
func (h *TwitterHandler) Retweet(c echo.Context) error {
	return h.perform(c, domain.ActionRepost, "")
}

// Reply handles POST /api/twitter/reply/:tweetId. The body is either
// {"message": "..."} or a bare JSON string.
//
// @Summary      Reply to a post
// @Tags         twitter
// @Accept       json
// @Produce      json
// @Param        tweetId          path      string        true   "Post id"
// @Param        Idempotency-Key  header    string        false  "Replay a previous success instead of calling the platform"
// @Param        body             body      replyRequest  true   "Reply text"
// @Success      200              {object}  actionResponse
// @Failure      400              {object}  actionResponse
// @Router       /api/twitter/reply/{tweetId} [post]
func (h *TwitterHandler) Reply(c echo.Context) error {
	message, err := bindReply(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, actionResponse{Message: err.Error()})
	}
	return h.perform(c, domain.ActionReply, message)
}

// Batch handles POST /api/twitter/actions/batch. Actions are queued and run
// in the background; actions on the same post keep their relative order.
//
// @Summary      Queue several actions
// @Tags         twitter
// @Accept       json
// @Produce      json
// @Param        body  body      batchRequest  true  "Actions to queue"
// @Success      202   {object}  batchResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  batchResponse
// @Router       /api/twitter/actions/batch [post]
func (h *TwitterHandler) Batch(c echo.Context) error {
	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	requestedBy, _ := ctxOperator(c)
	reqs := lo.Map(req.Actions, func(a batchActionRequest, _ int) ports.ActionRequest {
		return ports.ActionRequest{
			Kind:        domain.ActionKind(a.Action),
			PostID:      a.PostID,
			Message:     a.Message,
			RequestedBy: requestedBy,
		}
	})

	batchID := uuid.NewString()
	accepted, err := h.queue.EnqueueBatch(batchID, reqs)
	resp := batchResponse{BatchID: batchID, Accepted: accepted, Rejected: len(reqs) - accepted}
	if err != nil {
		h.log.Warn().Err(err).Str("batch_id", batchID).Int("accepted", accepted).Msg("batch partially queued")
		if accepted == 0 {
			return c.JSON(http.StatusServiceUnavailable, resp)
		}
	}
	return c.JSON(http.StatusAccepted, resp)
}

// Summary handles GET /api/twitter/summary.
//
// @Summary      Tracked accounts
// @Tags         twitter
// @Produce      json
// @Success      200  {object}  summaryResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/twitter/summary [get]
func (h *TwitterHandler) Summary(c echo.Context) error {
	accounts, err := h.accounts.List(c.Request().Context())
	if err != nil {
		return fmt.Errorf("list tracked accounts: %w", err)
	}
	active := lo.CountBy(accounts, func(a domain.TrackedAccount) bool { return a.Active })
	return c.JSON(http.StatusOK, summaryResponse{
		Source:   h.source,
		Count:    active,
		Accounts: accounts,
	})
}

func (h *TwitterHandler) perform(c echo.Context, kind domain.ActionKind, message string) error {
	requestedBy, _ := ctxOperator(c)
	res := h.actions.Perform(c.Request().Context(), ports.ActionRequest{
		Kind:           kind,
		PostID:         c.Param("tweetId"),
		Message:        message,
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get(idempotencyHeader)),
		RequestedBy:    requestedBy,
	})

	msgs := actionMessages[kind]
	if !res.Success {
		return c.JSON(http.StatusBadRequest, actionResponse{Success: false, Message: msgs[1]})
	}
	return c.JSON(http.StatusOK, actionResponse{Success: true, Message: msgs[0], Replayed: res.Replayed})
}

func bindReply(c echo.Context) (string, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return "", errInvalidPayload
	}
	body = bytes.TrimSpace(body)

	if len(body) > 0 && body[0] == '"' {
		var msg string
		if err := json.Unmarshal(body, &msg); err != nil {
			return "", errInvalidPayload
		}
		if msg == "" {
			return "", errors.New("message is required")
		}
		return msg, nil
	}

	var req replyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return "", err
	}
	return req.Message, nil
}
