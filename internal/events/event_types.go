package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventTokenRefreshed EventType = "token_refreshed"
)

// Event represents a domain event emitted by services. Email identifies
// the account the event concerns.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// UserLoggedInPayload payload.
type UserLoggedInPayload struct {
	IPAddress string `json:"ip_address,omitempty"`
}
