package models

import "time"

// Sender tells who wrote a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage is one entry of the assistant conversation.
type ChatMessage struct {
	ID        string
	Text      string
	Sender    Sender
	Timestamp time.Time
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the body returned by POST /api/chat.
type ChatResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}
