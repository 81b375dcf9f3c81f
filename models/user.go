package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleViewer Role = "VIEWER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleViewer
}

// User
// Collection: users
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	EmailVerified *time.Time         `bson:"email_verified,omitempty" json:"email_verified,omitempty"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Role          Role               `bson:"role" json:"role"`
}

// Account links a user to an OAuth provider identity.
// Collection: accounts
type Account struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"user_id" json:"user_id"`
	Provider          string             `bson:"provider" json:"provider"`
	ProviderAccountID string             `bson:"provider_account_id" json:"provider_account_id"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
}

// Session is a database-backed login session.
// Collection: sessions
type Session struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionToken string             `bson:"session_token" json:"-"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	ExpiresAt    time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
