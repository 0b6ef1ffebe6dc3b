// Package locallibrary assembles the library catalogue site: public
// browsing of books and authors, loan pages for members and librarians,
// record maintenance, sign-in and health probes.
//
// cmd/locallibrary connects the real dependencies:
//
//	app := locallibrary.New(cfg, locallibrary.Deps{
//		Store:    repository.New(pool),
//		Auth:     accounts.NewService(store),
//		Sessions: session.NewMemoryStore(),
//		Checks:   map[string]health.CheckFunc{"postgres": db.Healthcheck(pool)},
//	})
//	defer app.Close()
//
//	if err := app.Run(":8080", locallibrary.Logger(log)); err != nil {
//		log.Error("server stopped", "error", err)
//	}
package locallibrary
