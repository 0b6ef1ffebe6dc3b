// Package repository stores the catalogue in PostgreSQL.
//
// Queries are built with goqu's postgres dialect in prepared mode and run
// through pgx. Store works on a pool or inside a transaction:
//
//	store := repository.New(pool, repository.WithLogger(log))
//	err := store.InTx(ctx, func(tx *repository.Store) error {
//		_, err := tx.CreateAuthor(ctx, in)
//		return err
//	})
//
// Lookups of unknown rows fail with catalog.ErrNotFound; page numbers past
// the end of a listing fail with catalog.ErrInvalidPage.
package repository
