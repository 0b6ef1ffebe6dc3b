// Package catalog holds the library's domain model: genres, languages,
// authors, books and the physical copies lent to borrowers.
//
// Dates in this package are calendar days. Values are normalised with Day
// before comparison, so a renewal or overdue check never depends on the
// time of day or the server's zone.
//
//	today := catalog.Today(time.Now())
//	if err := catalog.ValidateRenewalDate(date, today); err != nil {
//		// errors.Is(err, catalog.ErrRenewalInPast) / ErrRenewalTooFar
//	}
//
// Listings are paged with NewPage; CheckPage rejects page numbers past the
// end of a non-empty list.
package catalog
