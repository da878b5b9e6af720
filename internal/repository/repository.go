package repository

import (
	"context"
	"errors"

	"gatekeeper-bot/internal/domain"
)

// ErrNotFound is returned when an identifier resolves to no member record.
var ErrNotFound = errors.New("member not found")

// MemberRepository persists one record per applicant identity. Every write
// is a single statement, so conflicting writes to the same user id are
// serialized by the database.
type MemberRepository interface {
	// UpsertOnRequest creates the record with status pending if absent;
	// otherwise it updates the mutable identity fields and the application
	// timestamp and leaves the status untouched. The username is
	// lower-cased before writing.
	UpsertOnRequest(ctx context.Context, userID int64, fullName, username string) (*domain.Member, error)
	GetByID(ctx context.Context, userID int64) (*domain.Member, error)
	// SetStatus writes the status unconditionally. Returns ErrNotFound when
	// no such member exists.
	SetStatus(ctx context.Context, userID int64, status domain.MemberStatus) error
	// GrantSubscription sets the status to active and overwrites the
	// subscription end date (YYYY-MM-DD).
	GrantSubscription(ctx context.Context, userID int64, endDate string) error
	// ListByStatus returns members ordered by end date ascending, with
	// missing dates sorted last.
	ListByStatus(ctx context.Context, status domain.MemberStatus) ([]domain.Member, error)
	// ListExpiringWithin returns members in the given status whose end date
	// falls within [today, today+days], inclusive, ascending.
	ListExpiringWithin(ctx context.Context, status domain.MemberStatus, days int) ([]domain.Member, error)
	ListAll(ctx context.Context) ([]domain.Member, error)
	// FindByIdentifier accepts a numeric id or an "@handle"; handle lookup
	// is case-insensitive.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Member, error)
}
