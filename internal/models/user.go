package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role is a user's part in the claim workflow.
type Role string

const (
	RoleClaimant Role = "claimant"
	RoleReviewer Role = "reviewer"
	RoleChecker  Role = "checker"
)

// Valid reports whether r is one of the three defined roles.
func (r Role) Valid() bool {
	return r == RoleClaimant || r == RoleReviewer || r == RoleChecker
}

// User is an account that can act on claims. Each user holds exactly
// one role; the workflow package decides what that role may do.
type User struct {
	// ID is the unique identifier of the user (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// Username is the login name.
	Username string `gorm:"size:100;not null;uniqueIndex" json:"username"`
	// Role determines which workflow transitions the user may request.
	Role Role `gorm:"type:varchar(20);not null;index" json:"role"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `gorm:"size:100;not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate is a GORM hook that assigns a new UUID if the ID is not
// already set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// SetPassword hashes the plaintext password and stores the hash.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext password matches the
// stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
