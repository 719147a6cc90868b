// Package main provides a tool to seed the database with sample catalog data.
//
// This inserts a handful of well-known titles and optionally test customer
// accounts so the API has something to serve during development.
//
// Usage:
//
//	DATA_PATH=~/Openshelf/data go run ./cmd/seed
//	DATA_PATH=~/Openshelf/data go run ./cmd/seed --create-customers
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/openshelf/openshelf-server/internal/auth"
	"github.com/openshelf/openshelf-server/internal/domain"
	"github.com/openshelf/openshelf-server/internal/id"
	"github.com/openshelf/openshelf-server/internal/store"
	"github.com/openshelf/openshelf-server/internal/store/sqlite"
)

var createCustomers = flag.Bool("create-customers", false, "Create test customer accounts")

// seedBooks are the titles inserted by the tool. Copies vary so loan
// testing has both plentiful and scarce books to work with.
var seedBooks = []struct {
	title  string
	author string
	copies int
}{
	{"Dune", "Frank Herbert", 3},
	{"Hyperion", "Dan Simmons", 2},
	{"The Left Hand of Darkness", "Ursula K. Le Guin", 2},
	{"Snow Crash", "Neal Stephenson", 1},
	{"A Memory Called Empire", "Arkady Martine", 1},
	{"The Dispossessed", "Ursula K. Le Guin", 2},
}

// testCustomers are created with --create-customers, all with the
// password "testpass123".
var testCustomers = []struct {
	email string
	name  string
}{
	{"alex@example.com", "Alex Rivera"},
	{"jordan@example.com", "Jordan Chen"},
	{"sam@example.com", "Sam Taylor"},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Openshelf/data")
	}
	dbPath := filepath.Join(dataPath, "openshelf.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	s, err := sqlite.Open(dbPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	created, merged := 0, 0
	for _, b := range seedBooks {
		existing, err := s.FindBookByTitleAuthor(ctx, b.title, b.author)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to look up %q: %v", b.title, err)
			continue
		}
		if existing != nil {
			fmt.Printf("  Already in catalog: %s by %s\n", b.title, b.author)
			merged++
			continue
		}

		book := &domain.Book{
			ID:     id.MustGenerate("book"),
			Title:  b.title,
			Author: b.author,
			Copies: b.copies,
		}
		book.InitTimestamps()

		if err := s.CreateBook(ctx, book); err != nil {
			log.Printf("Failed to create %q: %v", b.title, err)
			continue
		}
		fmt.Printf("  Added: %s by %s (%d copies)\n", b.title, b.author, b.copies)
		created++
	}

	fmt.Printf("Catalog seeded: %d added, %d already present\n", created, merged)

	if *createCustomers {
		seedTestCustomers(ctx, s)
	}

	fmt.Println("Seeding complete!")
}

// seedTestCustomers creates test customer accounts, skipping emails that
// already exist.
func seedTestCustomers(ctx context.Context, s *sqlite.Store) {
	fmt.Println("\n=== Creating Test Customers ===")

	hash, err := auth.HashPassword("testpass123")
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return
	}

	for _, tc := range testCustomers {
		if existing, _ := s.GetCustomerByEmail(ctx, tc.email); existing != nil {
			fmt.Printf("  Customer %s already exists, skipping\n", tc.email)
			continue
		}

		customer := &domain.Customer{
			ID:           id.MustGenerate("cust"),
			Email:        tc.email,
			Name:         tc.name,
			PasswordHash: hash,
		}
		customer.InitTimestamps()

		if err := s.CreateCustomer(ctx, customer); err != nil {
			log.Printf("  Failed to create customer %s: %v", tc.email, err)
			continue
		}
		fmt.Printf("  Created customer: %s (%s)\n", tc.name, tc.email)
	}

	fmt.Println("=== Test Customers Created ===")
}
