// Package mongo connects to MongoDB for the document-store backends of the catalog and user stores.
//
// Configuration is read from the environment (MONGODB_*). New retries the initial
// connect and ping, honoring context cancellation between attempts, and configures the
// client to decode nested documents as bson.M so that free-form metadata maps survive a
// round trip unchanged.
//
// # Usage
//
//	cfg, err := config.Load[mongo.Config]()
//	if err != nil {
//		return err
//	}
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	services := catalog.NewMongoStore(db, cfg.ServicesCollection)
//	users := subscription.NewMongoUserStore(db, cfg.UsersCollection)
//
//	ready := mongo.Healthcheck(db.Client())
//
// Errors are wrapped with ErrFailedToConnectToMongo and ErrHealthcheckFailed for errors.Is checks.
package mongo
