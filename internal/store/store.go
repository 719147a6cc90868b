// Package store defines the persistence interface for the Openshelf server.
package store

import (
	"context"

	"github.com/openshelf/openshelf-server/internal/domain"
)

// Store defines the interface for all persistence operations.
//
// The book copy counter is owned exclusively by the store: LoanBook and
// AddBookCopy are the only operations that may move it, and both apply a
// single conditional UPDATE so concurrent calls can never drive the count
// negative or lose an update.
type Store interface {
	// Lifecycle
	Close() error

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	FindBookByTitleAuthor(ctx context.Context, title, author string) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	UpdateBookInfo(ctx context.Context, id, title, author string) (*domain.Book, error)
	DeleteBook(ctx context.Context, id string) error

	// LoanBook atomically decrements the book's copy count, failing with
	// ErrNotFound if the book is missing and ErrNoCopies if the count is
	// already zero. Returns the fresh snapshot after the decrement.
	LoanBook(ctx context.Context, id string) (*domain.Book, error)

	// AddBookCopy atomically increments the book's copy count (a return,
	// or a create-or-merge hit). No upper bound is enforced.
	AddBookCopy(ctx context.Context, id string) (*domain.Book, error)

	// Customers
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer *domain.Customer) error
	DeleteCustomer(ctx context.Context, id string) error

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	TouchSession(ctx context.Context, id string) error
	DeleteSession(ctx context.Context, id string) error
	DeleteCustomerSessions(ctx context.Context, customerID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}
