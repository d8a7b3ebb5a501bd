package models

import "time"

const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

// Connection is a peer relationship, requested by one user and then accepted
// or rejected by the other. OtherUser* are relative to the user the list was
// loaded for.
type Connection struct {
	ID             int64      `json:"id" db:"id"`
	RequesterID    int64      `json:"requesterId" db:"requester_id"`
	ReceiverID     int64      `json:"receiverId" db:"receiver_id"`
	Status         string     `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	AcceptedAt     *time.Time `json:"acceptedAt" db:"accepted_at"`
	OtherUserID    int64      `json:"otherUserId" db:"other_user_id"`
	OtherUserName  string     `json:"otherUserName" db:"other_user_name"`
	OtherUserImage *string    `json:"otherUserImage" db:"other_user_image"`
}

// Involves reports whether userID is one side of the connection.
func (c *Connection) Involves(userID int64) bool {
	return c.RequesterID == userID || c.ReceiverID == userID
}
