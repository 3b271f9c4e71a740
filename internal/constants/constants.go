package constants

// ContextKeyUserID is the gin context key holding the authenticated user ID.
const ContextKeyUserID = "user_id"

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 6

// MaxAIGeneratedTasks caps how many tasks a single AI suggestion call may return.
const MaxAIGeneratedTasks = 20

// MaxDBConnections bounds the database connection pool.
const MaxDBConnections = 5
