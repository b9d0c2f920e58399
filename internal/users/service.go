// Copyright (c) 2026 AccountHub. All rights reserved.

package users

import (
	"context"
	"fmt"

	"github.com/joaofst/accounthub/internal/platform/apperr"
	"github.com/joaofst/accounthub/internal/platform/constants"
	"github.com/joaofst/accounthub/internal/platform/mailer"
	"github.com/joaofst/accounthub/internal/platform/sec"
	"github.com/joaofst/accounthub/pkg/pointer"
)

// # Contracts & Types

// TokenIssuer defines the contract for issuing and verifying signed tokens.
type TokenIssuer interface {
	// IssueAccess creates a short-lived access token whose subject is the email.
	IssueAccess(email string) (string, error)

	// IssuePasswordReset creates a recovery token for the given email.
	IssuePasswordReset(email string) (string, error)

	// VerifyPasswordReset validates a recovery token and returns its subject.
	// A token of any other class or shape yields ("", false).
	VerifyPasswordReset(token string) (string, bool)
}

// Hasher defines the contract for one-way password hashing.
type Hasher interface {
	// Hash derives a storable digest from a plaintext password.
	Hash(plain string) (string, error)

	// Verify reports whether plain matches the stored digest. A malformed
	// digest verifies as false, never as an error.
	Verify(plain, hash string) bool
}

// Service implements the account management use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, recovery,
// or login logic must be reviewed carefully.
type Service struct {
	repository         Repository
	verificationTokens VerificationTokenRepository
	tokens             TokenIssuer
	hasher             Hasher
	mail               mailer.Sender
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	repository Repository,
	verificationTokens VerificationTokenRepository,
	tokens TokenIssuer,
	hasher Hasher,
	mail mailer.Sender,
) *Service {
	return &Service{
		repository:         repository,
		verificationTokens: verificationTokens,
		tokens:             tokens,
		hasher:             hasher,
		mail:               mail,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

/*
Register validates, hashes, and persists a brand new account.

Description: Self-service enrollment. New accounts start active,
unprivileged, and unverified; a verification token is parked in volatile
storage and mailed out as a side effect.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: apperr.Conflict (if the email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.repository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("The user with this email already exists in the system")
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("users_service_register_lookup_failed: %w", err)
	}

	// Prevent storing plain-text passwords.
	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("users_service_hash_failed: %w", err)
	}

	user := &User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		IsActive:     true,
		IsSuperuser:  false,
		IsVerified:   false,
	}

	// Persist the account. Create maps the unique-email race to Conflict.
	if err := service.repository.Create(context, user); err != nil {
		return nil, err
	}

	// Park a verification token in volatile storage as an async-ready side effect.
	token, err := sec.GenerateSecureToken(constants.VerificationTokenLength)
	if err == nil {
		_ = service.verificationTokens.Set(context, token, user.Email, constants.VerificationTokenTTL)
		_ = service.mail.SendVerification(context, user.Email, token)
	}

	return user, nil
}

/*
VerifyEmail consumes a verification token and marks the account verified.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: apperr.ValidationError on an unknown or expired token
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {

	email, err := service.verificationTokens.Get(context, token)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.ValidationError("Verification token is invalid or expired")
		}
		return fmt.Errorf("users_service_verify_lookup_failed: %w", err)
	}

	user, err := service.repository.FindByEmail(context, email)
	if err != nil {
		return err
	}

	user.IsVerified = true
	if err := service.repository.Update(context, user); err != nil {
		return err
	}

	// Single use. Consume the token only after the flag is durable.
	_ = service.verificationTokens.Delete(context, token)

	return nil
}

// # Authentication Flow

/*
Authenticate resolves an email/password pair to an account.

Description: Unknown email and wrong password are indistinguishable to the
caller; both collapse into the same 401. Only after the credentials check out
is the inactive state revealed.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *User: The authenticated account
  - error: apperr.Unauthorized or apperr.Inactive
*/
func (service *Service) Authenticate(context context.Context, email, password string) (*User, error) {

	user, err := service.repository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Incorrect email or password")
		}
		return nil, fmt.Errorf("users_service_authenticate_lookup_failed: %w", err)
	}

	if !service.hasher.Verify(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}

	if !user.IsActive {
		return nil, apperr.Inactive()
	}

	return user, nil
}

/*
Login authenticates credentials and mints a bearer session.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *Session: Access token plus the account it represents
  - error: apperr.Unauthorized, apperr.Inactive, or signing failures
*/
func (service *Service) Login(context context.Context, email, password string) (*Session, error) {

	user, err := service.Authenticate(context, email, password)
	if err != nil {
		return nil, err
	}

	accessToken, err := service.tokens.IssueAccess(user.Email)
	if err != nil {
		return nil, fmt.Errorf("users_service_login_sign_failed: %w", err)
	}

	return &Session{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// # Self-Service Profile Management

/*
UpdateProfile applies a partial update to the caller's own account.

Description: Absent patch fields leave the stored value untouched. An email
change is checked for uniqueness before anything is written.

Parameters:
  - context: context.Context
  - user: *User (the authenticated caller, already loaded)
  - patch: ProfilePatch

Returns:
  - *User: The updated entity
  - error: apperr.Conflict on a taken email, otherwise persistence failures
*/
func (service *Service) UpdateProfile(context context.Context, user *User, patch ProfilePatch) (*User, error) {

	if patch.Email != nil && *patch.Email != user.Email {
		if _, err := service.repository.FindByEmail(context, *patch.Email); err == nil {
			return nil, apperr.Conflict("The user with this email already exists in the system")
		} else if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("users_service_update_lookup_failed: %w", err)
		}
		user.Email = *patch.Email
	}

	user.FullName = pointer.Fallback(patch.FullName, user.FullName)

	if patch.Password != nil {
		hashedPassword, err := service.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("users_service_hash_failed: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
ChangePassword rotates the caller's password after re-proving the current one.

Description: Order matters. The current password is verified first, then the
new password is rejected if it still verifies against the stored hash, and
only then is the hash replaced.

Parameters:
  - context: context.Context
  - user: *User (the authenticated caller)
  - currentPassword: string
  - newPassword: string

Returns:
  - error: apperr.ValidationError on a failed check, otherwise persistence failures
*/
func (service *Service) ChangePassword(context context.Context, user *User, currentPassword, newPassword string) error {

	if !service.hasher.Verify(currentPassword, user.PasswordHash) {
		return apperr.ValidationError("Incorrect password")
	}

	if service.hasher.Verify(newPassword, user.PasswordHash) {
		return apperr.ValidationError("New password cannot be the same as the current one")
	}

	hashedPassword, err := service.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("users_service_hash_failed: %w", err)
	}

	user.PasswordHash = hashedPassword
	if err := service.repository.Update(context, user); err != nil {
		return err
	}

	_ = service.mail.SendPasswordChanged(context, user.Email)

	return nil
}

/*
DeleteAccount permanently removes the caller's own account.

Parameters:
  - context: context.Context
  - user: *User (the authenticated caller)

Returns:
  - error: Persistence failures
*/
func (service *Service) DeleteAccount(context context.Context, user *User) error {
	return service.repository.Delete(context, user.ID)
}

// # Password Recovery Flow

/*
RequestPasswordReset mints a recovery token for the given email, if it exists.

Description: The outcome is deliberately uniform. An unknown email returns
success with an empty token so the endpoint can acknowledge every request
identically and never confirm which addresses hold accounts.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: The signed recovery token, or "" when no account matched
  - error: Signing or storage failures only
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {

	user, err := service.repository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("users_service_recover_lookup_failed: %w", err)
	}

	token, err := service.tokens.IssuePasswordReset(user.Email)
	if err != nil {
		return "", fmt.Errorf("users_service_recover_sign_failed: %w", err)
	}

	_ = service.mail.SendPasswordReset(context, user.Email, token)

	return token, nil
}

/*
ResetPassword redeems a recovery token and overwrites the account password.

Description: The token itself is the entire proof of authorization. No
server-side ledger of outstanding tokens exists, so a token stays redeemable
until its embedded expiry passes.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: apperr.ValidationError on a bad token, apperr.NotFound when the
    subject account is gone, apperr.Inactive for a deactivated subject
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	email, ok := service.tokens.VerifyPasswordReset(token)
	if !ok {
		return apperr.ValidationError("Invalid token")
	}

	// A token can outlive its account. That case is a distinct 404, unlike
	// the uniform acknowledgement on the recovery-request side.
	user, err := service.repository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("The user with this email does not exist in the system")
		}
		return fmt.Errorf("users_service_reset_lookup_failed: %w", err)
	}

	if !user.IsActive {
		return apperr.Inactive()
	}

	hashedPassword, err := service.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("users_service_hash_failed: %w", err)
	}

	user.PasswordHash = hashedPassword
	if err := service.repository.Update(context, user); err != nil {
		return err
	}

	_ = service.mail.SendPasswordChanged(context, user.Email)

	return nil
}

// # Administrative Management

// AdminCreateInput holds the data for a privileged account creation.
type AdminCreateInput struct {
	Email       string
	Password    string
	FullName    string
	IsActive    bool
	IsSuperuser bool
}

/*
List returns a page of accounts plus the total count.

Parameters:
  - context: context.Context
  - skip: int
  - limit: int

Returns:
  - []*User: The requested page
  - int: Total number of accounts
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, skip, limit int) ([]*User, int, error) {
	return service.repository.List(context, skip, limit)
}

/*
GetByID returns the account with the given ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetByID(context context.Context, id int64) (*User, error) {
	return service.repository.FindByID(context, id)
}

/*
AdminCreate provisions an account with explicit flags, bypassing self-service
defaults.

Parameters:
  - context: context.Context
  - input: AdminCreateInput

Returns:
  - *User: Created entity
  - error: apperr.Conflict or persistence failures
*/
func (service *Service) AdminCreate(context context.Context, input AdminCreateInput) (*User, error) {

	_, err := service.repository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("The user with this email already exists in the system")
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("users_service_admin_create_lookup_failed: %w", err)
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("users_service_hash_failed: %w", err)
	}

	user := &User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		IsActive:     input.IsActive,
		IsSuperuser:  input.IsSuperuser,
		IsVerified:   false,
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
AdminUpdate applies a privileged partial update to any account.

Parameters:
  - context: context.Context
  - id: int64
  - patch: AdminPatch

Returns:
  - *User: The updated entity
  - error: apperr.NotFound, apperr.Conflict, or persistence failures
*/
func (service *Service) AdminUpdate(context context.Context, id int64, patch AdminPatch) (*User, error) {

	user, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != user.Email {
		if _, err := service.repository.FindByEmail(context, *patch.Email); err == nil {
			return nil, apperr.Conflict("The user with this email already exists in the system")
		} else if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("users_service_admin_update_lookup_failed: %w", err)
		}
		user.Email = *patch.Email
	}

	user.FullName = pointer.Fallback(patch.FullName, user.FullName)
	user.IsActive = pointer.Fallback(patch.IsActive, user.IsActive)
	user.IsSuperuser = pointer.Fallback(patch.IsSuperuser, user.IsSuperuser)

	if patch.Password != nil {
		hashedPassword, err := service.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("users_service_hash_failed: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
AdminDelete permanently removes any account except the actor's own.

Description: The self-delete guard keeps an administrator from locking the
system out of its last superuser by accident. Repeating the delete reports
apperr.NotFound.

Parameters:
  - context: context.Context
  - id: int64 (the target account)
  - actor: *User (the authenticated administrator)

Returns:
  - error: apperr.SelfOperationForbidden, apperr.NotFound, or persistence failures
*/
func (service *Service) AdminDelete(context context.Context, id int64, actor *User) error {

	if actor != nil && actor.ID == id {
		return apperr.SelfOperationForbidden("Users are not allowed to delete themselves")
	}

	if _, err := service.repository.FindByID(context, id); err != nil {
		return err
	}

	return service.repository.Delete(context, id)
}

// # Bootstrap

/*
EnsureSuperuser idempotently seeds the first administrator account.

Description: Called at startup. When the account already exists nothing is
written, so repeated boots with the same configuration are harmless.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *User: The existing or newly created administrator
  - error: Persistence failures
*/
func (service *Service) EnsureSuperuser(context context.Context, email, password string) (*User, error) {

	user, err := service.repository.FindByEmail(context, email)
	if err == nil {
		return user, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("users_service_bootstrap_lookup_failed: %w", err)
	}

	hashedPassword, err := service.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("users_service_hash_failed: %w", err)
	}

	user = &User{
		Email:        email,
		PasswordHash: hashedPassword,
		FullName:     "Administrator",
		IsActive:     true,
		IsSuperuser:  true,
		IsVerified:   true,
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}
