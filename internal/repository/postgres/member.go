package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/repository"
)

const memberColumns = `user_id, COALESCE(username, ''), full_name, status, subscription_end_date, last_application_date`

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) UpsertOnRequest(ctx context.Context, userID int64, fullName, username string) (*domain.Member, error) {
	query := `INSERT INTO members (user_id, username, full_name, status, last_application_date)
	          VALUES ($1, $2, $3, 'pending', $4)
	          ON CONFLICT (user_id) DO UPDATE
	          SET username = EXCLUDED.username, full_name = EXCLUDED.full_name, last_application_date = EXCLUDED.last_application_date
	          RETURNING ` + memberColumns
	row := r.db.QueryRowContext(ctx, query, userID, nullUsername(username), fullName, time.Now())
	return scanMember(row)
}

func (r *memberRepository) GetByID(ctx context.Context, userID int64) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE user_id = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return m, err
}

func (r *memberRepository) SetStatus(ctx context.Context, userID int64, status domain.MemberStatus) error {
	query := `UPDATE members SET status = $1 WHERE user_id = $2`
	res, err := r.db.ExecContext(ctx, query, status, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *memberRepository) GrantSubscription(ctx context.Context, userID int64, endDate string) error {
	query := `UPDATE members SET status = 'active', subscription_end_date = $1 WHERE user_id = $2`
	res, err := r.db.ExecContext(ctx, query, endDate, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *memberRepository) ListByStatus(ctx context.Context, status domain.MemberStatus) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members
	          WHERE status = $1
	          ORDER BY subscription_end_date ASC NULLS LAST`
	logger.DatabaseCall("SELECT", "members by status", "status", status)

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "status", status)
		return nil, err
	}
	defer rows.Close()

	members, err := scanMembers(rows)
	logger.DatabaseResult("SELECT", int64(len(members)), err, "status", status)
	return members, err
}

func (r *memberRepository) ListExpiringWithin(ctx context.Context, status domain.MemberStatus, days int) ([]domain.Member, error) {
	today := time.Now().Format(domain.DateLayout)
	limit := time.Now().AddDate(0, 0, days).Format(domain.DateLayout)
	query := `SELECT ` + memberColumns + ` FROM members
	          WHERE status = $1
	          AND subscription_end_date IS NOT NULL
	          AND subscription_end_date >= $2
	          AND subscription_end_date <= $3
	          ORDER BY subscription_end_date ASC`
	rows, err := r.db.QueryContext(ctx, query, status, today, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (r *memberRepository) ListAll(ctx context.Context) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (r *memberRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.Member, error) {
	if strings.HasPrefix(identifier, "@") {
		handle := strings.ToLower(strings.TrimPrefix(identifier, "@"))
		query := `SELECT ` + memberColumns + ` FROM members WHERE username = $1`
		m, err := scanMember(r.db.QueryRowContext(ctx, query, handle))
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return m, err
	}
	userID, err := strconv.ParseInt(identifier, 10, 64)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, userID)
}

func nullUsername(username string) sql.NullString {
	if username == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.ToLower(username), Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.Member, error) {
	m := &domain.Member{}
	var endDate sql.NullTime
	var lastApplication time.Time
	err := row.Scan(&m.UserID, &m.Username, &m.FullName, &m.Status, &endDate, &lastApplication)
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		dateStr := endDate.Time.Format(domain.DateLayout)
		m.SubscriptionEndDate = &dateStr
	}
	m.LastApplicationDate = lastApplication.Format(domain.TimestampLayout)
	return m, nil
}

func scanMembers(rows *sql.Rows) ([]domain.Member, error) {
	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}
