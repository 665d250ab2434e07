// Package messages implements direct messages between members: sending a
// message and listing the members the caller has exchanged messages with.
package messages

import "time"

// maxTextLen caps the stored message body, in characters.
const maxTextLen = 5000

// Message is one direct message. Read starts false; no endpoint flips it.
type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// SendRequest is the body of POST /member/messages.
type SendRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// SendInput is the validated input for sending a message.
type SendInput struct {
	To   string
	Text string
}

// ConversationsResponse is the body of GET /member/messages.
type ConversationsResponse struct {
	Conversations []string `json:"conversations"`
}
