package constants

// ContextKeyUserID is the key under which the authenticated user ID is stored
// in both the session and the gin context.
const ContextKeyUserID = "user_id"

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// RiskWindowDays is the number of days ahead of today (inclusive) that counts
// as the risk window for near-due tasks.
const RiskWindowDays = 3

// RiskSampleLimit caps the number of at-risk tasks returned in the dashboard
// sample.
const RiskSampleLimit = 50

// TaskListLimit caps the number of tasks returned by the task list endpoint.
const TaskListLimit = 50

// CompletedSeriesDays is the length of the daily completed-tasks series,
// including today.
const CompletedSeriesDays = 30

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
