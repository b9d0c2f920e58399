// Copyright (c) 2026 AccountHub. All rights reserved.

package users

import (
	"context"
	"time"
)

// # Account Data Access

// Repository defines the data access contract for user accounts.
type Repository interface {

	/*
		FindByID returns the account with the given numeric ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound when absent, otherwise retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound when absent, otherwise retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		List returns a page of accounts ordered by ID, plus the total count.

		Parameters:
		  - context: context.Context
		  - skip: int (offset into the ordered collection)
		  - limit: int (maximum page size)

		Returns:
		  - []*User: The requested page
		  - int: Total number of accounts
		  - error: Retrieval failures
	*/
	List(context context.Context, skip, limit int) ([]*User, int, error)

	/*
		Create persists a brand-new account and assigns its ID.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on duplicate email, otherwise persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists the full mutable state of an account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.NotFound when the row is gone, apperr.Conflict on
		    duplicate email, otherwise persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		Delete permanently removes the account row.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: apperr.NotFound when no row matched, otherwise persistence failures
	*/
	Delete(context context.Context, id int64) error
}

// # Volatile Data Access

// VerificationTokenRepository defines the contract for storing volatile
// email verification tokens.
type VerificationTokenRepository interface {

	/*
		Set stores a verification token associated with an email for a limited duration.

		Parameters:
		  - context: context.Context
		  - token: string
		  - email: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, email string, ttl time.Duration) error

	/*
		Get retrieves the email associated with a given verification token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: Email address
		  - error: apperr.NotFound when absent or expired, otherwise retrieval failures
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a verification token after successful use.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}
