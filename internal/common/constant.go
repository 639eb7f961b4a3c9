package common

// CallerIDHeaderName is the HTTP header carrying the caller-id for
// owner-scoped operations.
const CallerIDHeaderName = "x-user-id"

// SessionTokenHeaderName is the response header carrying the session token
// issued after a successful code verification.
const SessionTokenHeaderName = "X-Session-Token"
