package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a registered customer or administrator.
// PasswordHash is never encoded to JSON.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"passwordHash,omitempty"`
	Phone        string             `json:"phone" bson:"phone"`
	IsAdmin      bool               `json:"isAdmin" bson:"isAdmin"`
	Street       string             `json:"street" bson:"street"`
	Apartment    string             `json:"apartment" bson:"apartment"`
	Zip          string             `json:"zip" bson:"zip"`
	City         string             `json:"city" bson:"city"`
	Country      string             `json:"country" bson:"country"`
}

// UserSummary is the part of a user embedded in order listings.
type UserSummary struct {
	ID   primitive.ObjectID `json:"id" bson:"_id"`
	Name string             `json:"name" bson:"name"`
}

// UserRequest represents the request payload for creating, registering or updating a user.
// LegacyPassword accepts clients that send the plaintext under "passwordHash".
type UserRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password"`
	LegacyPassword string `json:"passwordHash"`
	Phone          string `json:"phone" validate:"required"`
	IsAdmin        bool   `json:"isAdmin"`
	Street         string `json:"street"`
	Apartment      string `json:"apartment"`
	Zip            string `json:"zip"`
	City           string `json:"city"`
	Country        string `json:"country"`
}

// PlainPassword returns the submitted plaintext password.
func (r *UserRequest) PlainPassword() string {
	if r.Password != "" {
		return r.Password
	}
	return r.LegacyPassword
}

// LoginRequest represents the credentials submitted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	User  string `json:"user"`
	Token string `json:"token"`
}
