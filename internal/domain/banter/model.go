package banter

import "time"

// Room is the chat room consumers open for a match; keyed by match id.
type Room struct {
	MatchID   string
	CreatedAt time.Time
}

// Presence is one entry of a room's activeUsers sub-collection.
type Presence struct {
	UserID      string
	DisplayName string
	LastActive  time.Time
}

const DefaultPresenceLimit = 50
