package domain

const (
	EventJobNew       = "job:new"
	EventJobApplied   = "job:applied"
	EventJobCompleted = "job:completed"
	EventJobDeleted   = "job:deleted"
)

// RealtimeEvent is a named message pushed to connected clients. Rooms scope
// delivery; a client receives the event when it has joined any listed room.
type RealtimeEvent struct {
	Name    string         `json:"event"`
	Payload map[string]any `json:"data"`
	Rooms   []string       `json:"-"`
}

// UserRoom is the room every connection of a user joins.
func UserRoom(userID string) string { return "user:" + userID }

// RoleRoom is the room every connection authenticated with role joins.
func RoleRoom(role string) string { return "role:" + role }
