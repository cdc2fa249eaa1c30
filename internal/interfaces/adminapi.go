package interfaces

import (
	"context"

	"trader-admin-console/internal/types"
)

// AdminAPI is the remote trade/client management API as consumed by the
// view layers. The concrete client lives in internal/adminapi; wrappers
// (observability) implement the same surface.
type AdminAPI interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context)

	Trades(ctx context.Context, q types.TradeQuery) (*types.TradesPage, error)

	Clients(ctx context.Context, page, limit int) (*types.ClientsPage, error)
	AllClients(ctx context.Context, page, limit int) (*types.ClientsPage, error)
	SetPaid(ctx context.Context, clientID string, paid bool) error
	UpdateTradesAndBroker(ctx context.Context, clientID string, tags []string, broker string) error
	DeleteClient(ctx context.Context, clientID string) error
	UpdateClientToken(ctx context.Context, clientID, token string) error
}
