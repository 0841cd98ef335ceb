package subscription

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/subhub/pkg/pg"
)

// PostgresUserStore keeps the subscription history as a jsonb array on the users row.
type PostgresUserStore struct {
	db pg.DB
}

// NewPostgresUserStore creates a user store on top of a pgx pool or transaction.
func NewPostgresUserStore(db pg.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Get(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRow(ctx, `SELECT id, phone, subscriptions, version FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrDependencyFailure, err)
	}
	return u, nil
}

func (s *PostgresUserStore) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx, `SELECT id, phone, subscriptions, version FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.Join(ErrDependencyFailure, err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Join(ErrDependencyFailure, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrDependencyFailure, err)
	}
	return users, nil
}

func (s *PostgresUserStore) Upsert(ctx context.Context, u *User) error {
	if u == nil || u.ID == "" {
		return ErrInvalidArgument
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO users (id, phone, subscriptions, version)
		VALUES ($1, $2, COALESCE($3::jsonb, '[]'::jsonb), 1)
		ON CONFLICT (id) DO UPDATE SET
			phone         = COALESCE(NULLIF(EXCLUDED.phone, ''), users.phone),
			subscriptions = COALESCE($3::jsonb, users.subscriptions),
			version       = users.version + 1,
			updated_at    = now()
		RETURNING version`,
		u.ID, u.Phone, subscriptionsArg(u.Subscriptions),
	).Scan(&u.Version)
	if err != nil {
		return errors.Join(ErrDependencyFailure, err)
	}
	return nil
}

func (s *PostgresUserStore) UpsertVersioned(ctx context.Context, u *User, expected int64) error {
	if u == nil || u.ID == "" {
		return ErrInvalidArgument
	}

	var row pgx.Row
	if expected == 0 {
		row = s.db.QueryRow(ctx, `
			INSERT INTO users (id, phone, subscriptions, version)
			VALUES ($1, $2, COALESCE($3::jsonb, '[]'::jsonb), 1)
			ON CONFLICT (id) DO NOTHING
			RETURNING version`,
			u.ID, u.Phone, subscriptionsArg(u.Subscriptions),
		)
	} else {
		row = s.db.QueryRow(ctx, `
			UPDATE users SET
				phone         = COALESCE(NULLIF($2, ''), phone),
				subscriptions = COALESCE($3::jsonb, subscriptions),
				version       = version + 1,
				updated_at    = now()
			WHERE id = $1 AND version = $4
			RETURNING version`,
			u.ID, u.Phone, subscriptionsArg(u.Subscriptions), expected,
		)
	}

	if err := row.Scan(&u.Version); err != nil {
		if pg.IsNotFoundError(err) {
			return ErrVersionConflict
		}
		return errors.Join(ErrDependencyFailure, err)
	}
	return nil
}

func (s *PostgresUserStore) HasServiceReference(ctx context.Context, serviceID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE subscriptions @> jsonb_build_array(jsonb_build_object('service_id', $1::text))
		)`, serviceID,
	).Scan(&exists)
	if err != nil {
		return false, errors.Join(ErrDependencyFailure, err)
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Phone, &u.Subscriptions, &u.Version); err != nil {
		return nil, err
	}
	return &u, nil
}

// subscriptionsArg keeps a nil slice as SQL NULL so the merge preserves the stored history.
func subscriptionsArg(subs []Subscription) any {
	if subs == nil {
		return nil
	}
	return subs
}
