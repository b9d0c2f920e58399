// Copyright (c) 2026 AccountHub. All rights reserved.

/*
Package users implements the account identity and access management layer.

It defines the core domain entity (User) and the logic for registration,
authentication, password recovery, self-service profile management, and
administrative user management.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
external dependencies and encapsulate all business rules related to account
identity.
*/
package users

import (
	"time"
)

// # Domain Entities

// User represents a registered account holder.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	FullName     string    `json:"full_name,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is the credential bundle returned on a successful login.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

// # Patch Semantics

// ProfilePatch carries the self-service mutable fields of an account.
//
// Every field is a pointer: a nil field means "leave unchanged", and a
// present field means "overwrite with this value". The two states are
// never conflated with zero values.
type ProfilePatch struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

// AdminPatch extends [ProfilePatch] with the privileged flags only an
// administrator may change.
type AdminPatch struct {
	ProfilePatch
	IsActive    *bool `json:"is_active"`
	IsSuperuser *bool `json:"is_superuser"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the users domain.
const (
	FieldEmail              = "email"
	FieldPassword           = "password"
	FieldFullName           = "full_name"
	FieldToken              = "token"
	FieldCurrentPassword    = "current_password"
	FieldNewPassword        = "new_password"
	FieldNewPasswordConfirm = "new_password_confirm"
	FieldAccessToken        = "access_token"
	FieldTokenType          = "token_type"
	FieldUser               = "user"
	FieldMessage            = "message"
	FieldUserID             = "userID"
)

// # Domain Limits

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// MaxPasswordLength caps input before it reaches the hasher, which
	// silently truncates at 72 bytes.
	MaxPasswordLength = 72

	// MaxFullNameLength bounds the free-text display name.
	MaxFullNameLength = 120

	// MaxEmailLength matches the column width of the email field.
	MaxEmailLength = 255
)
