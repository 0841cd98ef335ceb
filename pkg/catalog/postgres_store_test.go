package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subhub/pkg/catalog"
)

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

// recordingDB captures the last statement and answers with the configured row or tag.
type recordingDB struct {
	sql  string
	args []any
	row  pgx.Row
	tag  pgconn.CommandTag
	err  error
}

func (d *recordingDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.sql, d.args = sql, args
	return d.tag, d.err
}

func (d *recordingDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.sql, d.args = sql, args
	return nil, errors.New("connection reset")
}

func (d *recordingDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	d.sql, d.args = sql, args
	return d.row
}

func serviceRow(svc catalog.Service) pgx.Row {
	return rowFunc(func(dest ...any) error {
		*dest[0].(*string) = svc.ID
		*dest[1].(*string) = svc.Name
		*dest[2].(*float64) = svc.Price
		*dest[3].(*string) = svc.Currency
		*dest[4].(*string) = string(svc.BillingCycle)
		*dest[5].(*string) = string(svc.Type)
		*dest[6].(*string) = svc.Description
		*dest[7].(**bool) = svc.Active
		*dest[8].(*map[string]any) = svc.Metadata
		return nil
	})
}

func errRow(err error) pgx.Row {
	return rowFunc(func(...any) error { return err })
}

func TestPostgresStore_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("maps columns", func(t *testing.T) {
		t.Parallel()
		svc := catalog.Service{ID: "svc-A", Name: "Music", Price: 9.99, Currency: "USD", BillingCycle: catalog.CycleMonthly, Type: catalog.TypeSubscription}
		db := &recordingDB{row: serviceRow(svc)}

		created, err := catalog.NewPostgresStore(db).Create(ctx, svc)
		require.NoError(t, err)
		assert.Equal(t, svc, *created)

		require.Len(t, db.args, 9)
		assert.Equal(t, "monthly", db.args[4])
		assert.Equal(t, "subscription", db.args[5])
		assert.Nil(t, db.args[8], "nil metadata must be SQL NULL")
	})

	t.Run("duplicate id", func(t *testing.T) {
		t.Parallel()
		db := &recordingDB{row: errRow(&pgconn.PgError{Code: "23505"})}
		_, err := catalog.NewPostgresStore(db).Create(ctx, catalog.Service{ID: "svc-A"})
		assert.ErrorIs(t, err, catalog.ErrServiceExists)
	})

	t.Run("driver error", func(t *testing.T) {
		t.Parallel()
		db := &recordingDB{row: errRow(errors.New("connection reset"))}
		_, err := catalog.NewPostgresStore(db).Create(ctx, catalog.Service{ID: "svc-A"})
		assert.ErrorIs(t, err, catalog.ErrStorage)
	})
}

func TestPostgresStore_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unset fields are NULL", func(t *testing.T) {
		t.Parallel()
		name := "Music Pro"
		db := &recordingDB{row: serviceRow(catalog.Service{ID: "svc-A", Name: name})}

		updated, err := catalog.NewPostgresStore(db).Update(ctx, "svc-A", catalog.Patch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, updated.Name)

		require.Len(t, db.args, 9)
		assert.Equal(t, "svc-A", db.args[0])
		assert.Equal(t, &name, db.args[1])
		for i := 2; i < 9; i++ {
			assert.Nil(t, db.args[i], "arg %d", i+1)
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		db := &recordingDB{row: errRow(pgx.ErrNoRows)}
		_, err := catalog.NewPostgresStore(db).Update(ctx, "nope", catalog.Patch{})
		assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
	})
}

func TestPostgresStore_GetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := catalog.NewPostgresStore(&recordingDB{row: errRow(pgx.ErrNoRows)}).Get(ctx, "nope")
	assert.ErrorIs(t, err, catalog.ErrServiceNotFound)

	db := &recordingDB{tag: pgconn.NewCommandTag("DELETE 0")}
	assert.ErrorIs(t, catalog.NewPostgresStore(db).Delete(ctx, "nope"), catalog.ErrServiceNotFound)
	assert.Equal(t, []any{"nope"}, db.args)

	db = &recordingDB{tag: pgconn.NewCommandTag("DELETE 1")}
	assert.NoError(t, catalog.NewPostgresStore(db).Delete(ctx, "svc-A"))

	db = &recordingDB{err: errors.New("connection reset")}
	assert.ErrorIs(t, catalog.NewPostgresStore(db).Delete(ctx, "svc-A"), catalog.ErrStorage)

	_, err = catalog.NewPostgresStore(&recordingDB{}).List(ctx)
	assert.ErrorIs(t, err, catalog.ErrStorage)
}
