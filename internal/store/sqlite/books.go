package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/openshelf/openshelf-server/internal/domain"
	"github.com/openshelf/openshelf-server/internal/store"
)

const bookColumns = `id, created_at, updated_at, title, author, copies`

// scanBook scans a book row into a domain.Book.
func scanBook(row interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var book domain.Book
	var createdAt, updatedAt string

	err := row.Scan(
		&book.ID,
		&createdAt,
		&updatedAt,
		&book.Title,
		&book.Author,
		&book.Copies,
	)
	if err != nil {
		return nil, err
	}

	if book.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if book.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &book, nil
}

// CreateBook inserts a new book record.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Title,
		book.Author,
		book.Copies,
	)
	if err != nil {
		return store.ErrInvalidInput.WithCause(err)
	}

	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = ?`

	book, err := scanBook(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	return book, nil
}

// FindBookByTitleAuthor looks up a book by its exact (title, author) pair.
// This is the deduplication identity used by create-or-merge.
func (s *Store) FindBookByTitleAuthor(ctx context.Context, title, author string) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE title = ? AND author = ? LIMIT 1`

	book, err := scanBook(s.db.QueryRowContext(ctx, query, title, author))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find book by title/author: %w", err)
	}

	return book, nil
}

// ListBooks returns all books ordered by title.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY title, author`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

// UpdateBookInfo updates a book's title and author. The copy count is not
// touched here; it only moves through LoanBook and AddBookCopy.
func (s *Store) UpdateBookInfo(ctx context.Context, id, title, author string) (*domain.Book, error) {
	query := `
		UPDATE books
		SET title = ?, author = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, title, author, formatTime(time.Now()), id)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update book rows affected: %w", err)
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	return s.GetBook(ctx, id)
}

// DeleteBook removes a book record.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}

// LoanBook decrements the book's copy count with a conditional update so
// two concurrent loans of the last copy cannot both succeed.
func (s *Store) LoanBook(ctx context.Context, id string) (*domain.Book, error) {
	query := `
		UPDATE books
		SET copies = copies - 1, updated_at = ?
		WHERE id = ? AND copies > 0`

	result, err := s.db.ExecContext(ctx, query, formatTime(time.Now()), id)
	if err != nil {
		return nil, fmt.Errorf("loan book: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("loan book rows affected: %w", err)
	}
	if affected == 0 {
		// Either the book is missing or it is out of copies.
		if _, err := s.GetBook(ctx, id); err != nil {
			return nil, err
		}
		return nil, store.ErrNoCopies
	}

	return s.GetBook(ctx, id)
}

// AddBookCopy increments the book's copy count.
func (s *Store) AddBookCopy(ctx context.Context, id string) (*domain.Book, error) {
	query := `
		UPDATE books
		SET copies = copies + 1, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, formatTime(time.Now()), id)
	if err != nil {
		return nil, fmt.Errorf("add book copy: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("add book copy rows affected: %w", err)
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	return s.GetBook(ctx, id)
}
