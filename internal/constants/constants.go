package constants

const (
	// Session / context keys
	SessionCookieName = "task_session"
	ContextKeyUserID  = "user_id"
	ContextKeyTeam    = "team"
	ContextKeyMember  = "team_member"
	ContextKeyTask    = "task"
	ContextKeyReqID   = "request_id"

	HeaderRequestID = "X-Request-ID"

	// Auth
	MinPasswordLength = 8

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// AI
	MaxAIGeneratedTasks = 20

	// Remote functions
	FunctionSendReminder = "send-reminder"
)
