package users

import "time"

// User is a buyer account. Accounts come from email signup, Google login,
// or phone verification; the latter two leave the password fields empty.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	FullName     string    `json:"fullName"`
	PictureURL   string    `json:"pictureUrl"`
	PasswordHash string    `json:"-"`
	PasswordSalt string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasPassword reports whether the account supports password login.
func (u User) HasPassword() bool {
	return u.PasswordHash != "" && u.PasswordSalt != ""
}
