package domain

import "time"

// DefaultRole is assigned to every account created through registration.
const DefaultRole = "user"

// User is the domain model for registered accounts. Email is the stable
// unique identifier; tokens carry it as their subject claim.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
