package store

import "github.com/eriktmidtun/secfit-auth/internal/logger"

// Storages bundles every repository backed by the shared database
// connection.
type Storages struct {
	UserRepository          UserRepository
	TokenDenylistRepository TokenDenylistRepository
}

// NewStorages wires all repositories to the given database connection.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:          NewUserRepository(db, log),
		TokenDenylistRepository: NewDenylistRepository(db, log),
	}
}
