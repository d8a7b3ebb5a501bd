package connection

// ConnectionRequest is the body of POST /api/connections.
type ConnectionRequest struct {
	ReceiverID int64 `json:"receiverId" validate:"required,gt=0"`
}
