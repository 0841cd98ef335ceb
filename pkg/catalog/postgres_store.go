package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/subhub/pkg/pg"
)

const serviceColumns = `id, name, price, currency, billing_cycle, type, description, active, metadata`

// PostgresStore persists services in the services table created by the embedded migrations.
type PostgresStore struct {
	db pg.DB
}

// NewPostgresStore creates a catalog store on top of a pgx pool or transaction.
func NewPostgresStore(db pg.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]Service, error) {
	rows, err := s.db.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY position`)
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, errors.Join(ErrStorage, err)
		}
		out = append(out, *svc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Service, error) {
	row := s.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	svc, err := scanService(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrServiceNotFound
		}
		return nil, errors.Join(ErrStorage, err)
	}
	return svc, nil
}

func (s *PostgresStore) Create(ctx context.Context, svc Service) (*Service, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO services (id, name, price, currency, billing_cycle, type, description, active, metadata)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+serviceColumns,
		svc.ID, svc.Name, svc.Price, svc.Currency, string(svc.BillingCycle), string(svc.Type),
		svc.Description, svc.Active, jsonArg(svc.Metadata),
	)
	created, err := scanService(row)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", ErrServiceExists, svc.ID)
		}
		return nil, errors.Join(ErrStorage, err)
	}
	return created, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, patch Patch) (*Service, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE services SET
			name          = COALESCE($2, name),
			price         = COALESCE($3, price),
			currency      = COALESCE($4, currency),
			billing_cycle = COALESCE($5, billing_cycle),
			type          = COALESCE($6, type),
			description   = COALESCE($7, description),
			active        = COALESCE($8, active),
			metadata      = COALESCE($9::jsonb, metadata)
		WHERE id = $1
		RETURNING `+serviceColumns,
		id, patch.Name, patch.Price, patch.Currency, (*string)(patch.BillingCycle), (*string)(patch.Type),
		patch.Description, patch.Active, jsonArg(patch.Metadata),
	)
	updated, err := scanService(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrServiceNotFound
		}
		return nil, errors.Join(ErrStorage, err)
	}
	return updated, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func scanService(row pgx.Row) (*Service, error) {
	var (
		svc          Service
		billingCycle string
		serviceType  string
	)
	if err := row.Scan(
		&svc.ID, &svc.Name, &svc.Price, &svc.Currency, &billingCycle, &serviceType,
		&svc.Description, &svc.Active, &svc.Metadata,
	); err != nil {
		return nil, err
	}
	svc.BillingCycle = BillingCycle(billingCycle)
	svc.Type = ServiceType(serviceType)
	return &svc, nil
}

// jsonArg keeps a nil map as SQL NULL instead of the JSON literal null.
func jsonArg(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}
