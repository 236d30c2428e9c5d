package domain

// Push event types delivered to connected clients
const (
	EventMessage        = "message"
	EventMessageUpdated = "message_updated"
	EventReaction       = "reaction"
	EventTyping         = "typing"
	EventPresence       = "presence"
	EventFriendRequest  = "friend_request"
)
