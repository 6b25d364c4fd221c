package twitter

import "time"

// Endpoint paths, relative to the API base URL.
const (
	pathUsersMe       = "/users/me"
	pathUserByName    = "/users/by/username/{username}"
	pathUserTweets    = "/users/{id}/tweets"
	pathUserLikes     = "/users/{id}/likes"
	pathUserRetweets  = "/users/{id}/retweets"
	pathCreateTweet   = "/tweets"
	recentPostsLimit  = "5"
	recentPostsFields = "created_at"
)

// Metric/log names for each endpoint.
const (
	endpointUsersMe    = "users_me"
	endpointUserByName = "users_by_username"
	endpointUserTweets = "user_tweets"
	endpointLikes      = "likes"
	endpointRetweets   = "retweets"
	endpointReply      = "create_tweet"
)

// userEnvelope is {"data": {"id": ...}}. A missing data key decodes to nil.
type userEnvelope struct {
	Data *userData `json:"data"`
}

type userData struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

// tweetsEnvelope is {"data": [...]}.
type tweetsEnvelope struct {
	Data []tweetData `json:"data"`
}

// tweetData uses pointers so absent fields can be told apart from empty ones.
type tweetData struct {
	ID        *string    `json:"id"`
	Text      *string    `json:"text"`
	CreatedAt *time.Time `json:"created_at"`
}

// targetBody is the like/retweet request body.
type targetBody struct {
	TweetID string `json:"tweet_id"`
}

// replyBody is the create-tweet request body for a reply.
type replyBody struct {
	Text  string      `json:"text"`
	Reply replyTarget `json:"reply"`
}

type replyTarget struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}
