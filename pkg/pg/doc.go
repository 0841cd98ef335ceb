// Package pg provides the PostgreSQL plumbing for the relational backends of the
// catalog and user stores: a pgx/v5 connection pool with retry, goose migrations read
// from an fs.FS, a readiness probe and helpers for classifying pgx errors.
//
// # Usage
//
//	cfg, err := config.Load[pg.Config]()
//	if err != nil {
//		return err
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, db.Migrations, db.MigrationsDir, cfg, log); err != nil {
//		return err
//	}
//
//	services := catalog.NewPostgresStore(pool)
//	users := subscription.NewPostgresUserStore(pool)
//
// Stores depend on the DB interface rather than the pool, so they also run inside a pgx.Tx.
package pg
