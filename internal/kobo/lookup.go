package kobo

import (
	"context"
	"database/sql"
)

// BookQuery selects a single book. ISBN takes precedence over Title; an empty
// string means the key was not supplied.
type BookQuery struct {
	ISBN  string
	Title string
}

// FindBook returns the first content row whose ISBN equals query.ISBN, or,
// when no ISBN is given, whose Title contains query.Title (case-sensitive).
// It returns nil and no error when nothing matches. Unlike GetBooks it does
// not filter on content type.
func (r *Reader) FindBook(ctx context.Context, query BookQuery) (*Book, error) {
	var statement, arg string
	switch {
	case query.ISBN != "":
		statement, arg = findBookByISBNQuery, query.ISBN
	case query.Title != "":
		statement, arg = findBookByTitleQuery, query.Title
	default:
		return nil, ErrInvalidLookupArgs
	}

	var result readResult[Book]
	err := withConnection(ctx, r.deviceRoot, func(db *sql.DB) error {
		var err error
		result, err = readAll(ctx, db, tableContent, statement, mapBook, arg)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(result.Items) == 0 {
		return nil, nil
	}
	return &result.Items[0], nil
}
