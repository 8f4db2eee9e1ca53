package models

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account document in the MongoDB users collection. The users
// collection lives beside the posts collection so that post queries can
// join author documents in a single aggregation.
type User struct {
	ID       primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username string             `json:"username" bson:"username"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"-" bson:"password"` // bcrypt hash, never serialized
}

// Avatar returns the gravatar URL derived from the user's email. The same
// email always yields the same URL.
func (u User) Avatar() string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return "https://gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=128"
}

// ToCompact returns the public projection of the user.
func (u User) ToCompact() AuthorInfo {
	return AuthorInfo{Username: u.Username, Avatar: u.Avatar()}
}

// RegisterRequest defines the request body for account registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=50"`
}

// LoginRequest defines the request body for credential login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// UserID is the hex form of the user's ObjectID.
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
