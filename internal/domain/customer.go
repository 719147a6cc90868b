package domain

// Customer represents a registered library member.
type Customer struct {
	Timestamps
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	// PasswordHash is the argon2id encoded hash. Never serialized.
	PasswordHash string `json:"-"`
}
