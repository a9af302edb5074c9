package constants

const (
	// ContextKeyUserID is the gin context / session key holding the authenticated user id.
	ContextKeyUserID = "user_id"

	// SessionCookieName names the session cookie.
	SessionCookieName = "story_session"

	// MinPasswordLength is the minimum accepted password length on signup.
	MinPasswordLength = 8

	// DefaultPageLimit is the page size applied when the client supplies none.
	DefaultPageLimit = 3

	// MaxPageLimit caps the page size a client may request.
	MaxPageLimit = 100
)
