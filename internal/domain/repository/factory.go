package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Accounts() AccountRepository
	Admins() AdminRepository
	Stalls() StallRepository
	Ledger() LedgerRepository
	Sequencer() TokenSequencer
	Orders() OrderRepository
	Outbox() OutboxRepository
}

// Store is a Factory able to run work inside one transaction. Repositories handed to fn
// share the transaction; it commits when fn returns nil and rolls back otherwise.
type Store interface {
	Factory
	WithinTransaction(ctx context.Context, fn func(tx Factory) error) error
	Ping(ctx context.Context) error
	Close()
}
