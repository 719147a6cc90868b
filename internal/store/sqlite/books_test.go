package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/openshelf/openshelf-server/internal/store"
)

func TestBookCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := newTestBook("Dune", "Frank Herbert", 1)
	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("create book: %v", err)
	}

	got, err := s.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.Title != "Dune" || got.Author != "Frank Herbert" || got.Copies != 1 {
		t.Errorf("got %+v, want Dune/Frank Herbert/1", got)
	}

	updated, err := s.UpdateBookInfo(ctx, book.ID, "Dune Messiah", "Frank Herbert")
	if err != nil {
		t.Fatalf("update book: %v", err)
	}
	if updated.Title != "Dune Messiah" {
		t.Errorf("title = %q, want Dune Messiah", updated.Title)
	}
	if updated.Copies != 1 {
		t.Errorf("copies = %d, update must not touch the count", updated.Copies)
	}

	if err := s.DeleteBook(ctx, book.ID); err != nil {
		t.Fatalf("delete book: %v", err)
	}
	if _, err := s.GetBook(ctx, book.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get deleted book: got %v, want ErrNotFound", err)
	}
}

func TestBookNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetBook(ctx, "book-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get: got %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateBookInfo(ctx, "book-missing", "x", "y"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteBook(ctx, "book-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("delete: got %v, want ErrNotFound", err)
	}
	if _, err := s.LoanBook(ctx, "book-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("loan: got %v, want ErrNotFound", err)
	}
	if _, err := s.AddBookCopy(ctx, "book-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("add copy: got %v, want ErrNotFound", err)
	}
}

func TestFindBookByTitleAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := newTestBook("Hyperion", "Dan Simmons", 2)
	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("create book: %v", err)
	}

	got, err := s.FindBookByTitleAuthor(ctx, "Hyperion", "Dan Simmons")
	if err != nil {
		t.Fatalf("find book: %v", err)
	}
	if got.ID != book.ID {
		t.Errorf("id = %q, want %q", got.ID, book.ID)
	}

	// Same title by a different author is a different book.
	if _, err := s.FindBookByTitleAuthor(ctx, "Hyperion", "Someone Else"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("find with different author: got %v, want ErrNotFound", err)
	}
}

func TestLoanAndReturn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := newTestBook("Dune", "Frank Herbert", 2)
	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("create book: %v", err)
	}

	after, err := s.LoanBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("loan: %v", err)
	}
	if after.Copies != 1 {
		t.Errorf("copies after loan = %d, want 1", after.Copies)
	}

	after, err = s.LoanBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("second loan: %v", err)
	}
	if after.Copies != 0 {
		t.Errorf("copies after second loan = %d, want 0", after.Copies)
	}

	// Out of copies now: the book still exists, so the error must be
	// the no-copies one, not not-found.
	if _, err := s.LoanBook(ctx, book.ID); !errors.Is(err, store.ErrNoCopies) {
		t.Fatalf("loan at zero: got %v, want ErrNoCopies", err)
	}

	after, err = s.AddBookCopy(ctx, book.ID)
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if after.Copies != 1 {
		t.Errorf("copies after return = %d, want 1", after.Copies)
	}
}

func TestConcurrentLoanLastCopy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := newTestBook("The Dispossessed", "Ursula K. Le Guin", 1)
	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("create book: %v", err)
	}

	const loaners = 8
	errs := make([]error, loaners)

	var wg sync.WaitGroup
	for i := range loaners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.LoanBook(ctx, book.ID)
		}()
	}
	wg.Wait()

	var successes, noCopies int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, store.ErrNoCopies):
			noCopies++
		default:
			t.Errorf("unexpected loan error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if noCopies != loaners-1 {
		t.Errorf("no-copies failures = %d, want %d", noCopies, loaners-1)
	}

	got, err := s.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.Copies != 0 {
		t.Errorf("final copies = %d, want 0", got.Copies)
	}
}

func TestListBooksOrdered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, b := range []struct{ title, author string }{
		{"Ubik", "Philip K. Dick"},
		{"Dune", "Frank Herbert"},
		{"Neuromancer", "William Gibson"},
	} {
		if err := s.CreateBook(ctx, newTestBook(b.title, b.author, 1)); err != nil {
			t.Fatalf("create %q: %v", b.title, err)
		}
	}

	books, err := s.ListBooks(ctx)
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("len = %d, want 3", len(books))
	}
	want := []string{"Dune", "Neuromancer", "Ubik"}
	for i, title := range want {
		if books[i].Title != title {
			t.Errorf("books[%d].Title = %q, want %q", i, books[i].Title, title)
		}
	}
}
