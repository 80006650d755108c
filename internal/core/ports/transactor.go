package ports

import "context"

// Transactor runs fn as a single all-or-nothing unit. The MongoDB
// implementation uses a session transaction; test doubles simply invoke fn.
// Repositories called inside fn must use the context it receives so their
// operations join the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
