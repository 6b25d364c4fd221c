package domain

// ActionKind names a write action issued against the platform.
type ActionKind string

const (
	ActionLike   ActionKind = "like"
	ActionRepost ActionKind = "repost"
	ActionReply  ActionKind = "reply"
)

// Valid reports whether k is one of the supported actions.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionLike, ActionRepost, ActionReply:
		return true
	}
	return false
}

// ActionResult is the outcome of a single write action. There is no partial
// success: either the platform answered 2xx or the action failed.
type ActionResult struct {
	Action     ActionKind
	PostID     string
	Success    bool
	StatusCode int   // zero when no response was received
	Cause      error // internal diagnostic, never rendered to callers
	Replayed   bool  // served from the idempotency ledger
}

// Succeeded builds a successful result.
func Succeeded(action ActionKind, postID string, status int) ActionResult {
	return ActionResult{Action: action, PostID: postID, Success: true, StatusCode: status}
}

// Failed builds a failed result carrying its cause.
func Failed(action ActionKind, postID string, status int, cause error) ActionResult {
	return ActionResult{Action: action, PostID: postID, StatusCode: status, Cause: cause}
}
