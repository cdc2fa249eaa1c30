// Package apiobs wraps an AdminAPI with spans and structured logs around
// every remote call.
package apiobs

import (
	"context"
	"time"

	"trader-admin-console/internal/interfaces"
	"trader-admin-console/internal/logger"
	"trader-admin-console/internal/trace"
	"trader-admin-console/internal/types"
)

type observableAPI struct {
	api interfaces.AdminAPI
}

var _ interfaces.AdminAPI = (*observableAPI)(nil)

func Wrap(api interfaces.AdminAPI) interfaces.AdminAPI {
	return &observableAPI{api: api}
}

func (o *observableAPI) Login(ctx context.Context, email, password string) error {
	ctx, span := trace.StartSpan(ctx, "adminapi.Login")
	defer span.End()

	start := time.Now()
	err := o.api.Login(ctx, email, password)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Login failed", err,
			"email", email,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}

	logger.InfoSkip(ctx, 1, "Login succeeded",
		"email", email,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (o *observableAPI) Logout(ctx context.Context) {
	ctx, span := trace.StartSpan(ctx, "adminapi.Logout")
	defer span.End()

	o.api.Logout(ctx)
	logger.InfoSkip(ctx, 1, "Logged out")
}

func (o *observableAPI) Trades(ctx context.Context, q types.TradeQuery) (*types.TradesPage, error) {
	ctx, span := trace.StartSpan(ctx, "adminapi.Trades")
	defer span.End()

	start := time.Now()
	page, err := o.api.Trades(ctx, q)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Trades fetch failed", err,
			"page", q.Page,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Trades fetched",
		"page", page.Page,
		"total_pages", page.TotalPages,
		"count", len(page.Trades),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return page, nil
}

func (o *observableAPI) Clients(ctx context.Context, page, limit int) (*types.ClientsPage, error) {
	ctx, span := trace.StartSpan(ctx, "adminapi.Clients")
	defer span.End()

	start := time.Now()
	out, err := o.api.Clients(ctx, page, limit)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Clients fetch failed", err,
			"page", page,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Clients fetched",
		"page", page,
		"total_pages", out.TotalPages,
		"count", len(out.Clients),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (o *observableAPI) AllClients(ctx context.Context, page, limit int) (*types.ClientsPage, error) {
	ctx, span := trace.StartSpan(ctx, "adminapi.AllClients")
	defer span.End()

	out, err := o.api.AllClients(ctx, page, limit)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "All-clients fetch failed", err, "page", page)
		return nil, err
	}
	return out, nil
}

func (o *observableAPI) SetPaid(ctx context.Context, clientID string, paid bool) error {
	ctx, span := trace.StartSpan(ctx, "adminapi.SetPaid")
	defer span.End()

	err := o.api.SetPaid(ctx, clientID, paid)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Paid flag update failed", err,
			"client_id", clientID,
			"is_paid", paid,
		)
		return err
	}

	logger.InfoSkip(ctx, 1, "Paid flag updated", "client_id", clientID, "is_paid", paid)
	return nil
}

func (o *observableAPI) UpdateTradesAndBroker(ctx context.Context, clientID string, tags []string, broker string) error {
	ctx, span := trace.StartSpan(ctx, "adminapi.UpdateTradesAndBroker")
	defer span.End()

	err := o.api.UpdateTradesAndBroker(ctx, clientID, tags, broker)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Trades/broker update failed", err,
			"client_id", clientID,
			"broker", broker,
		)
		return err
	}

	logger.InfoSkip(ctx, 1, "Trades/broker updated",
		"client_id", clientID,
		"tags", tags,
		"broker", broker,
	)
	return nil
}

func (o *observableAPI) DeleteClient(ctx context.Context, clientID string) error {
	ctx, span := trace.StartSpan(ctx, "adminapi.DeleteClient")
	defer span.End()

	err := o.api.DeleteClient(ctx, clientID)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Client delete failed", err, "client_id", clientID)
		return err
	}

	logger.InfoSkip(ctx, 1, "Client deleted", "client_id", clientID)
	return nil
}

func (o *observableAPI) UpdateClientToken(ctx context.Context, clientID, token string) error {
	ctx, span := trace.StartSpan(ctx, "adminapi.UpdateClientToken")
	defer span.End()

	err := o.api.UpdateClientToken(ctx, clientID, token)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Client token update failed", err, "client_id", clientID)
		return err
	}

	// The token value itself never reaches the logs.
	logger.InfoSkip(ctx, 1, "Client token re-provisioned", "client_id", clientID)
	return nil
}
