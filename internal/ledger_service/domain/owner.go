package domain

import "time"

// Owner is the identity that holds one or more accounts.
type Owner struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
