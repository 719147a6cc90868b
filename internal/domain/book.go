// Package domain contains the core business entities for the Openshelf library service.
package domain

import "time"

// Timestamps provides common bookkeeping fields for persisted entities.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity changes.
func (t *Timestamps) Touch() {
	t.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (t *Timestamps) InitTimestamps() {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// DefaultCopies is the copy count a book starts with when none is specified.
const DefaultCopies = 1

// Book represents a title in the catalog together with its available copy count.
//
// A book is uniquely identified for deduplication by its (title, author)
// pair, not by ID: registering an already-known pair merges into the
// existing record instead of creating a second one.
type Book struct {
	Timestamps
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	// Copies is the number of copies currently available for loan.
	// Invariant: never negative. The store enforces this with a
	// conditional update; nothing else may mutate it.
	Copies int `json:"numberOfCopies"`
}

// HasCopies reports whether at least one copy is available for loan.
func (b *Book) HasCopies() bool {
	return b.Copies > 0
}

// SamePair reports whether the book matches the given (title, author) pair exactly.
func (b *Book) SamePair(title, author string) bool {
	return b.Title == title && b.Author == author
}
