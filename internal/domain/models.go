package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated user account created via Google sign-in.
type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	FullName       string    `db:"full_name" json:"full_name"`
	Picture        string    `db:"picture" json:"picture"`
	Role           UserRole  `db:"role" json:"role"`
	ProviderUserID string    `db:"provider_user_id" json:"-"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Run is a persisted record summarizing one completed cleaning operation.
type Run struct {
	ID                uuid.UUID `db:"id" json:"id"`
	OwnerUserID       uuid.UUID `db:"owner_user_id" json:"owner_user_id"`
	RowsIn            int       `db:"rows_in" json:"rows_in"`
	RowsOut           int       `db:"rows_out" json:"rows_out"`
	DuplicatesRemoved int       `db:"duplicates_removed" json:"duplicates_removed"`
	InvalidEmails     int       `db:"invalid_emails" json:"invalid_emails"`
	InvalidPhones     int       `db:"invalid_phones" json:"invalid_phones"`
	ColumnsCSV        string    `db:"columns_csv" json:"columns_csv"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
