package models

// User is an account allowed to query projections. Permissions is the set
// of permission tags granted to the account; it becomes the caller's
// permission set for the projector.
type User struct {
	ID           int      `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"` // don’t expose hash
	Permissions  []string `json:"permissions"`
}
