package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // Actor ID reference
	CreatedByName string    `json:"createdByName"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // Actor ID reference
}

// Actor identifies who performed an operation. Resolved from the session by
// the HTTP layer; the scheduler uses SystemActor.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SystemActor is the actor recorded for mutations initiated by background
// jobs rather than a signed-in user.
var SystemActor = Actor{ID: "system", Name: "System"}
