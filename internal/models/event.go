package models

// RegistrationEvent is published to Kafka after a successful registration.
type RegistrationEvent struct {
	EventID   string `json:"event_id"`  // Unique event identifier
	UserID    string `json:"user_id"`   // Registered user ID
	Email     string `json:"email"`     // Registered email
	Username  string `json:"username"`  // Registered username
	Timestamp int64  `json:"timestamp"` // Unix time of registration
}
