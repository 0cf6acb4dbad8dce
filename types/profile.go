package types

import "time"

// Profile holds the farm metadata owned by exactly one user. One row is
// created per user at sign-up and mutated only by that user.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	FarmName  string    `json:"farm_name"`
	Location  string    `json:"location"`
	FarmSize  float64   `json:"farm_size"`
	Crops     []string  `json:"crops"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfilePatch carries a partial profile update. Nil fields are left
// untouched (merge-patch semantics).
type ProfilePatch struct {
	FullName *string   `json:"full_name"`
	FarmName *string   `json:"farm_name"`
	Location *string   `json:"location"`
	FarmSize *float64  `json:"farm_size"`
	Crops    *[]string `json:"crops"`
}
