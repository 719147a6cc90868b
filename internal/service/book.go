// Package service provides the business logic layer for the Openshelf server.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openshelf/openshelf-server/internal/domain"
	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
	"github.com/openshelf/openshelf-server/internal/id"
	"github.com/openshelf/openshelf-server/internal/store"
	"github.com/openshelf/openshelf-server/internal/validation"
)

// Messages surfaced to clients for missing records and exhausted inventory.
// The loan message is deliberately distinct so a caller can tell an unknown
// book apart from one that is merely out of copies.
const (
	MsgRecordNotFound  = "The record you are trying to access doesn't exist!"
	MsgNotEnoughCopies = "The book you are trying to loan doesn't have enough copies!"
)

// BookService orchestrates book catalog and inventory operations.
type BookService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store store.Store, validator *validation.Validator, logger *slog.Logger) *BookService {
	return &BookService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// BookRequest contains the book data for create and update operations.
// Copies is only honored on create; merges and updates never touch the
// counter through this path.
type BookRequest struct {
	Title  string `json:"title" validate:"required,max=200"`
	Author string `json:"author" validate:"required,max=100"`
	Copies int    `json:"numberOfCopies" validate:"min=0"`
}

// CreateOrMerge adds a book to the catalog. If a book with the same exact
// title and author already exists, no new record is created; the existing
// book gains one copy instead.
func (s *BookService) CreateOrMerge(ctx context.Context, req BookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.store.FindBookByTitleAuthor(ctx, req.Title, req.Author)
	switch {
	case err == nil:
		merged, err := s.store.AddBookCopy(ctx, existing.ID)
		if err != nil {
			return nil, convertStoreErr(err)
		}
		s.logger.Info("book merged",
			"book_id", merged.ID,
			"title", merged.Title,
			"copies", merged.Copies,
		)
		return merged, nil
	case errors.Is(err, store.ErrNotFound):
		// Fall through to create.
	default:
		return nil, fmt.Errorf("find book: %w", err)
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	copies := req.Copies
	if copies < 1 {
		copies = domain.DefaultCopies
	}

	book := &domain.Book{
		ID:     bookID,
		Title:  req.Title,
		Author: req.Author,
		Copies: copies,
	}
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, convertStoreErr(err)
	}

	s.logger.Info("book created",
		"book_id", book.ID,
		"title", book.Title,
		"author", book.Author,
	)

	return book, nil
}

// Get retrieves a single book by ID.
func (s *BookService) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, convertStoreErr(err)
	}
	return book, nil
}

// List returns all books in the catalog.
func (s *BookService) List(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []*domain.Book{}
	}
	return books, nil
}

// Update changes a book's title and author. The copy count never moves
// through this path.
func (s *BookService) Update(ctx context.Context, bookID string, req BookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.store.UpdateBookInfo(ctx, bookID, req.Title, req.Author)
	if err != nil {
		return nil, convertStoreErr(err)
	}

	s.logger.Info("book updated", "book_id", book.ID, "title", book.Title)

	return book, nil
}

// Delete removes a book from the catalog.
func (s *BookService) Delete(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return convertStoreErr(err)
	}

	s.logger.Info("book deleted", "book_id", bookID)

	return nil
}

// Loan takes one copy of the book out of circulation. Fails when the book
// doesn't exist or has no copies left; both outcomes carry distinct
// messages so the caller can tell them apart.
func (s *BookService) Loan(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.LoanBook(ctx, bookID)
	if err != nil {
		return nil, convertStoreErr(err)
	}

	s.logger.Info("book loaned", "book_id", book.ID, "copies_left", book.Copies)

	return book, nil
}

// Return puts one copy of the book back into circulation.
func (s *BookService) Return(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.AddBookCopy(ctx, bookID)
	if err != nil {
		return nil, convertStoreErr(err)
	}

	s.logger.Info("book returned", "book_id", book.ID, "copies", book.Copies)

	return book, nil
}

// convertStoreErr maps persistence errors onto domain errors with the
// canonical client-facing messages.
func convertStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNoCopies):
		return domainerrors.NoCopies(MsgNotEnoughCopies)
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound(MsgRecordNotFound)
	case errors.Is(err, store.ErrEmailExists):
		return domainerrors.AlreadyExists("email already in use")
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.AlreadyExists("resource already exists")
	default:
		return err
	}
}
