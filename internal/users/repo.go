package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when the targeted user record does not exist.
var ErrNotFound = errors.New("user not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// User is the stored account record. Ecocredits only ever grows through
// AddCredits; this subsystem never decrements it.
type User struct {
	ID          string    `json:"id"`
	ExternalUID string    `json:"-"`
	Email       string    `json:"email,omitempty"`
	Username    string    `json:"username,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	Ecocredits  int64     `json:"ecocredits"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpsertUser struct {
	ExternalUID string
	Email       string
	Username    string
}

// EnsureUser resolves an externally-authenticated identity to a DB user
// id, creating the record (with a zero balance) on first sight.
func (r *Repo) EnsureUser(ctx context.Context, u UpsertUser) (string, error) {
	if u.ExternalUID == "" {
		return "", fmt.Errorf("external uid required")
	}

	const q = `
insert into users (external_uid, email, username, updated_at)
values ($1, nullif($2,''), nullif($3,''), now())
on conflict (external_uid) do update
set
  email = coalesce(excluded.email, users.email),
  username = coalesce(excluded.username, users.username),
  updated_at = now()
returning id::text;
`
	var id string
	if err := r.db.QueryRow(ctx, q, u.ExternalUID, u.Email, u.Username).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// AddCredits applies an award to the user's balance as a single
// read-modify-write inside the database, so concurrent submissions for
// the same user can never lose an update. Returns the post-increment
// total.
func (r *Repo) AddCredits(ctx context.Context, userID string, delta int) (int64, error) {
	const q = `
update users
set ecocredits = ecocredits + $2, updated_at = now()
where id = $1
returning ecocredits;
`
	var total int64
	err := r.db.QueryRow(ctx, q, userID, delta).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("add credits: %w", err)
	}
	return total, nil
}

// Get returns the user's profile and balance.
func (r *Repo) Get(ctx context.Context, userID string) (*User, error) {
	const q = `
select id::text, external_uid, coalesce(email,''), coalesce(username,''),
       coalesce(phone,''), coalesce(address,''), ecocredits, created_at, updated_at
from users
where id = $1;
`
	var u User
	err := r.db.QueryRow(ctx, q, userID).Scan(
		&u.ID, &u.ExternalUID, &u.Email, &u.Username,
		&u.Phone, &u.Address, &u.Ecocredits, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ProfileUpdate carries the caller-editable profile fields. Nil fields
// are left untouched; the balance is never editable this way.
type ProfileUpdate struct {
	Username *string
	Phone    *string
	Address  *string
}

// UpdateProfile applies a partial profile update and returns the
// refreshed record.
func (r *Repo) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*User, error) {
	const q = `
update users
set
  username = coalesce($2, username),
  phone    = coalesce($3, phone),
  address  = coalesce($4, address),
  updated_at = now()
where id = $1
returning id;
`
	var id string
	err := r.db.QueryRow(ctx, q, userID, upd.Username, upd.Phone, upd.Address).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return r.Get(ctx, userID)
}

// Delete removes the account and its balance with it.
func (r *Repo) Delete(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx, `delete from users where id = $1;`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Balance pairs a user with their current total, for leaderboard
// reconciliation.
type Balance struct {
	UserID     string
	Ecocredits int64
}

// ListBalances returns every user's current balance.
func (r *Repo) ListBalances(ctx context.Context) ([]Balance, error) {
	rows, err := r.db.Query(ctx, `select id::text, ecocredits from users;`)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()

	var out []Balance
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.UserID, &b.Ecocredits); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
