// Package handlers serves the catalogue pages.
//
// Each handler receives its dependencies through a constructor and
// declares its routes in Routes, so the app is assembled as:
//
//	internal.New(
//		internal.WithHandlers(
//			handlers.NewCatalog(store),
//			handlers.NewRecords(store),
//			handlers.NewLoans(store),
//			handlers.NewAccounts(authService, limiter),
//		),
//		internal.WithErrorHandler(handlers.ErrorHandler()),
//	)
//
// Guards from the middlewares package are attached at registration, never
// inside the handler bodies.
package handlers
