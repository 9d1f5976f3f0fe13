// Package testutil runs lifecycle components inside tests.
//
//	db := testutil.Start(t, database.NewComponent(cfg, logger.Nop()))
//	testutil.RequireHealthy(t, db)
package testutil
