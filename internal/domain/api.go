package domain

import "time"

type PostMessageRequest struct {
	Payload string `json:"payload" binding:"required"`
}

type MessageResponse struct {
	MessageReference string    `json:"message_reference"`
	SentTimestamp    time.Time `json:"sent_timestamp"`
	Success          bool      `json:"success"`
	Error            string    `json:"error,omitempty"`
}

// StatusUpdate is pushed to WebSocket clients whenever a message advances
// through the pipeline.
type StatusUpdate struct {
	Type              string            `json:"type"`
	MessageID         string            `json:"message_id"`
	TransactionStatus TransactionStatus `json:"transaction_status"`
	Details           string            `json:"details,omitempty"`
	Timestamp         time.Time         `json:"timestamp"`
}
