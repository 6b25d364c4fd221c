// Package twitter is the remote API client for the Twitter/X v2 platform.
//
// Every exported operation is total: transport failures, non-2xx answers and
// malformed payloads are logged and turned into an absent value or a failed
// domain.ActionResult. Nothing is retried.
package twitter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"resty.dev/v3"

	"github.com/tweetfi/tweetfi-service/internal/pkg/metrics"
	"github.com/tweetfi/tweetfi-service/internal/core/domain"
	"github.com/tweetfi/tweetfi-service/internal/core/ports"
)

const DefaultBaseURL = "https://api.twitter.com/2"

// Config captures the settings for talking to the platform.
type Config struct {
	BaseURL     string
	BearerToken string
	// RatePerSecond caps outbound requests. Zero or negative disables limiting.
	RatePerSecond float64
	Burst         int
	// Timeout is the transport timeout. Zero leaves the transport default.
	Timeout time.Duration
}

// Client implements ports.PlatformClient.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	log     zerolog.Logger

	// self caches the authenticated account id for the process lifetime. Two
	// concurrent first calls may both resolve it; both store the same value.
	self atomic.Pointer[domain.AccountID]
}

var _ ports.PlatformClient = (*Client)(nil)

// NewClient builds a Client. A missing bearer token is the only error.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	token := strings.TrimSpace(cfg.BearerToken)
	if token == "" {
		return nil, domain.ErrMissingCredential
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	hc := resty.New().
		SetBaseURL(base).
		SetHeader("Authorization", "Bearer "+token).
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		hc.SetTimeout(cfg.Timeout)
	}

	return &Client{
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
		log:     log.With().Str("component", "twitter_client").Logger(),
	}, nil
}

// Close releases idle transport connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// ResolveOwnIdentity returns the id of the account behind the bearer token.
// The first successful lookup is cached and never refreshed.
func (c *Client) ResolveOwnIdentity(ctx context.Context) (domain.AccountID, bool) {
	if id := c.self.Load(); id != nil {
		return *id, true
	}

	var env userEnvelope
	status, err := c.send(ctx, endpointUsersMe, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&env).Get(pathUsersMe)
	})
	if err == nil && (env.Data == nil || env.Data.ID == "") {
		err = fmt.Errorf("%w: users/me without data.id", domain.ErrMalformedPayload)
	}
	if err != nil {
		c.fail("ResolveOwnIdentity", status, err).Msg("own identity lookup failed")
		return "", false
	}

	id := domain.AccountID(env.Data.ID)
	c.self.Store(&id)
	c.log.Debug().Str("account_id", string(id)).Msg("own identity resolved")
	return id, true
}

// GetLatestPost resolves handle to an account id and returns the newest of
// its five most recent posts. A failed lookup skips the posts request.
func (c *Client) GetLatestPost(ctx context.Context, handle domain.AccountHandle) (domain.Post, bool) {
	const op = "GetLatestPost"

	if strings.TrimSpace(string(handle)) == "" {
		c.fail(op, 0, domain.ErrEmptyHandle).Msg("latest post lookup skipped")
		return domain.Post{}, false
	}

	var user userEnvelope
	status, err := c.send(ctx, endpointUserByName, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("username", string(handle)).SetResult(&user).Get(pathUserByName)
	})
	if err == nil && (user.Data == nil || user.Data.ID == "") {
		err = fmt.Errorf("%w: user lookup without data.id", domain.ErrMalformedPayload)
	}
	if err != nil {
		c.fail(op, status, err).Str("handle", string(handle)).Msg("user lookup failed")
		return domain.Post{}, false
	}

	var tweets tweetsEnvelope
	status, err = c.send(ctx, endpointUserTweets, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", user.Data.ID).
			SetQueryParam("max_results", recentPostsLimit).
			SetQueryParam("tweet.fields", recentPostsFields).
			SetResult(&tweets).
			Get(pathUserTweets)
	})
	if err != nil {
		c.fail(op, status, err).Str("handle", string(handle)).Msg("recent posts lookup failed")
		return domain.Post{}, false
	}
	if len(tweets.Data) == 0 {
		c.log.Debug().Str("handle", string(handle)).Msg("no recent posts")
		return domain.Post{}, false
	}

	post, err := toPost(tweets.Data[0])
	if err != nil {
		c.fail(op, status, err).Str("handle", string(handle)).Msg("recent posts payload unusable")
		return domain.Post{}, false
	}
	return post, true
}

// LikePost likes postID as the authenticated account.
func (c *Client) LikePost(ctx context.Context, postID string) domain.ActionResult {
	return c.actAsSelf(ctx, domain.ActionLike, endpointLikes, pathUserLikes, postID)
}

// RepostPost reposts postID as the authenticated account.
func (c *Client) RepostPost(ctx context.Context, postID string) domain.ActionResult {
	return c.actAsSelf(ctx, domain.ActionRepost, endpointRetweets, pathUserRetweets, postID)
}

// ReplyToPost publishes message as a reply to postID. The platform infers the
// author from the token, so no identity lookup happens.
func (c *Client) ReplyToPost(ctx context.Context, postID, message string) domain.ActionResult {
	body := replyBody{Text: message, Reply: replyTarget{InReplyToTweetID: postID}}
	status, err := c.send(ctx, endpointReply, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(body).Post(pathCreateTweet)
	})
	return c.actionResult("ReplyToPost", domain.ActionReply, postID, status, err)
}

func (c *Client) actAsSelf(ctx context.Context, action domain.ActionKind, endpoint, path, postID string) domain.ActionResult {
	op := opName(action)

	self, ok := c.ResolveOwnIdentity(ctx)
	if !ok {
		c.log.Warn().Str("op", op).Str("post_id", postID).Msg("action skipped: own identity unavailable")
		return domain.Failed(action, postID, 0, domain.ErrIdentityUnavailable)
	}

	status, err := c.send(ctx, endpoint, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", string(self)).SetBody(targetBody{TweetID: postID}).Post(path)
	})
	return c.actionResult(op, action, postID, status, err)
}

func (c *Client) actionResult(op string, action domain.ActionKind, postID string, status int, err error) domain.ActionResult {
	if err != nil {
		c.fail(op, status, err).Str("post_id", postID).Msg("action failed")
		return domain.Failed(action, postID, status, err)
	}
	c.log.Info().Str("op", op).Str("post_id", postID).Int("status", status).Msg("action succeeded")
	return domain.Succeeded(action, postID, status)
}

// send waits for the limiter, fires one request and classifies the outcome.
// It returns the response status (zero when none arrived) and an error
// wrapping one of the domain failure classes for anything but a 2xx answer.
func (c *Client) send(ctx context.Context, endpoint string, fire func(*resty.Request) (*resty.Response, error)) (int, error) {
	start := time.Now()
	defer func() {
		metrics.PlatformRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.PlatformRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return 0, fmt.Errorf("%w: %s: rate limiter: %v", domain.ErrTransport, endpoint, err)
	}

	res, err := fire(c.http.R().WithContext(ctx))

	status := 0
	if res != nil {
		status = res.StatusCode()
	}
	if status == 0 {
		metrics.PlatformRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
	} else {
		metrics.PlatformRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	}
	c.log.Debug().Str("endpoint", endpoint).Int("status", status).Msg("platform response")

	switch {
	case status == 0:
		if err == nil {
			err = errors.New("no response")
		}
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrTransport, endpoint, err)
	case !res.IsSuccess():
		return status, fmt.Errorf("%w: %s: status %d", domain.ErrUnexpectedStatus, endpoint, status)
	case err != nil:
		// A 2xx whose body could not be decoded.
		return status, fmt.Errorf("%w: %s: %v", domain.ErrMalformedPayload, endpoint, err)
	}
	return status, nil
}

func (c *Client) fail(op string, status int, err error) *zerolog.Event {
	ev := c.log.Error().Err(err).Str("op", op)
	if status != 0 {
		ev = ev.Int("status", status)
	}
	return ev
}

func toPost(t tweetData) (domain.Post, error) {
	if t.ID == nil || *t.ID == "" || t.Text == nil {
		return domain.Post{}, fmt.Errorf("%w: post without id or text", domain.ErrMalformedPayload)
	}
	p := domain.Post{ID: *t.ID, Text: *t.Text}
	if t.CreatedAt != nil {
		p.CreatedAt = *t.CreatedAt
	}
	return p, nil
}

func opName(action domain.ActionKind) string {
	switch action {
	case domain.ActionLike:
		return "LikePost"
	case domain.ActionRepost:
		return "RepostPost"
	default:
		return "ReplyToPost"
	}
}
