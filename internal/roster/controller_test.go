package roster

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trader-admin-console/internal/types"
)

type fakeAPI struct {
	mu          sync.Mutex
	listCalls   int
	paidCalls   []struct {
		ID   string
		Paid bool
	}
	updateCalls int
	deleteCalls []string

	clientsFn func(page, limit int) (*types.ClientsPage, error)
	paidErr   error
	updateErr error
	deleteErr error
}

func (f *fakeAPI) Clients(_ context.Context, page, limit int) (*types.ClientsPage, error) {
	f.mu.Lock()
	f.listCalls++
	fn := f.clientsFn
	f.mu.Unlock()
	return fn(page, limit)
}

func (f *fakeAPI) SetPaid(_ context.Context, id string, paid bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paidCalls = append(f.paidCalls, struct {
		ID   string
		Paid bool
	}{id, paid})
	return f.paidErr
}

func (f *fakeAPI) UpdateTradesAndBroker(_ context.Context, id string, tags []string, broker string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	return f.updateErr
}

func (f *fakeAPI) DeleteClient(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func (f *fakeAPI) Login(context.Context, string, string) error { return nil }
func (f *fakeAPI) Logout(context.Context)                      {}
func (f *fakeAPI) AllClients(context.Context, int, int) (*types.ClientsPage, error) {
	return &types.ClientsPage{}, nil
}
func (f *fakeAPI) Trades(context.Context, types.TradeQuery) (*types.TradesPage, error) {
	return &types.TradesPage{}, nil
}
func (f *fakeAPI) UpdateClientToken(context.Context, string, string) error { return nil }

func twoClients() []types.Client {
	return []types.Client{
		{ID: "c1", ClientName: "Asha", IsPaid: false, Broker: "zerodha", Trade: []string{"Nifty"}},
		{ID: "c2", ClientName: "Ravi", IsPaid: true},
	}
}

func newLoaded(t *testing.T, api *fakeAPI) *Controller {
	t.Helper()
	if api.clientsFn == nil {
		api.clientsFn = func(page, limit int) (*types.ClientsPage, error) {
			return &types.ClientsPage{Clients: twoClients(), TotalPages: 3}, nil
		}
	}
	c := New(api, 10)
	require.NoError(t, c.Load(context.Background(), 1))
	return c
}

func TestTogglePaidUpdatesOnlyThatRow(t *testing.T) {
	api := &fakeAPI{}
	c := newLoaded(t, api)

	require.NoError(t, c.TogglePaid(context.Background(), "c1"))

	require.Len(t, api.paidCalls, 1)
	assert.Equal(t, "c1", api.paidCalls[0].ID)
	assert.True(t, api.paidCalls[0].Paid)

	got := c.Clients()
	assert.True(t, got[0].IsPaid, "toggled row must flip")
	assert.True(t, got[1].IsPaid, "other rows must be untouched")
	assert.Equal(t, "Asha", got[0].ClientName, "other fields must be untouched")
	assert.Equal(t, 1, api.listCalls, "in-place update must not refetch")
}

func TestTogglePaidFailureLeavesRowUnchanged(t *testing.T) {
	api := &fakeAPI{paidErr: errors.New("503")}
	c := newLoaded(t, api)

	err := c.TogglePaid(context.Background(), "c1")
	require.Error(t, err)
	assert.False(t, c.Clients()[0].IsPaid, "row must keep its confirmed value")
}

func TestTogglePaidUnknownClient(t *testing.T) {
	api := &fakeAPI{}
	c := newLoaded(t, api)

	err := c.TogglePaid(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoSuchClient)
	assert.Empty(t, api.paidCalls)
}

func TestEditDraftIsolatedUntilSave(t *testing.T) {
	api := &fakeAPI{}
	c := newLoaded(t, api)

	d, err := c.BeginEdit("c1")
	require.NoError(t, err)
	assert.Equal(t, "zerodha", d.Broker)
	assert.True(t, d.Has("Nifty"))

	require.NoError(t, c.ToggleTag("Crude Oil"))
	require.NoError(t, c.ToggleTag("Nifty")) // deselect
	require.NoError(t, c.SetBroker("dhan"))

	// Nothing reached the server and the page cache is untouched.
	assert.Zero(t, api.updateCalls)
	assert.Equal(t, []string{"Nifty"}, c.Clients()[0].Trade)
	assert.Equal(t, "zerodha", c.Clients()[0].Broker)

	// Toggling twice keeps set semantics: no duplicates, back to original.
	require.NoError(t, c.ToggleTag("Crude Oil"))
	require.NoError(t, c.ToggleTag("Crude Oil"))
	assert.Equal(t, []string{"Crude Oil"}, d.Tags())
}

func TestEditRejectsUnknownValues(t *testing.T) {
	c := newLoaded(t, &fakeAPI{})

	_, err := c.BeginEdit("c1")
	require.NoError(t, err)

	assert.Error(t, c.ToggleTag("Gold"))
	assert.Error(t, c.SetBroker("robinhood"))
	assert.NoError(t, c.SetBroker(""), "empty broker clears the assignment")
}

func TestSaveEditSuccessClosesAndRelists(t *testing.T) {
	api := &fakeAPI{}
	c := newLoaded(t, api)

	_, err := c.BeginEdit("c1")
	require.NoError(t, err)
	require.NoError(t, c.SetBroker("paytm money"))

	listsBefore := api.listCalls
	require.NoError(t, c.SaveEdit(context.Background()))

	state, draft := c.Editing()
	assert.Equal(t, EditClosed, state)
	assert.Nil(t, draft)
	assert.Equal(t, 1, api.updateCalls)
	assert.Equal(t, listsBefore+1, api.listCalls, "save must re-list the current page")
}

func TestSaveEditFailureKeepsDraft(t *testing.T) {
	api := &fakeAPI{updateErr: errors.New("validation failed")}
	c := newLoaded(t, api)

	_, err := c.BeginEdit("c1")
	require.NoError(t, err)
	require.NoError(t, c.ToggleTag("Natural Gas"))

	listsBefore := api.listCalls
	require.Error(t, c.SaveEdit(context.Background()))

	state, draft := c.Editing()
	assert.Equal(t, EditOpen, state, "failed save returns to editing")
	require.NotNil(t, draft)
	assert.True(t, draft.Has("Natural Gas"), "unsaved selections survive the failure")
	assert.Equal(t, listsBefore, api.listCalls, "failed save must not discard the draft via a re-list")
}

func TestSecondEditRejectedWhileOpen(t *testing.T) {
	c := newLoaded(t, &fakeAPI{})

	_, err := c.BeginEdit("c1")
	require.NoError(t, err)
	_, err = c.BeginEdit("c2")
	assert.ErrorIs(t, err, ErrEditInProgress)

	c.CancelEdit()
	_, err = c.BeginEdit("c2")
	assert.NoError(t, err)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	api := &fakeAPI{}
	c := newLoaded(t, api)

	require.NoError(t, c.RequestDelete("c2"))
	state, target := c.PendingDelete()
	assert.Equal(t, DeleteConfirmPending, state)
	assert.Equal(t, "c2", target)
	assert.Empty(t, api.deleteCalls, "request alone must not hit the network")

	listsBefore := api.listCalls
	require.NoError(t, c.ConfirmDelete(context.Background()))
	assert.Equal(t, []string{"c2"}, api.deleteCalls)
	assert.Equal(t, listsBefore+1, api.listCalls, "successful delete re-lists the page")

	state, _ = c.PendingDelete()
	assert.Equal(t, DeleteIdle, state)
}

func TestCancelDeleteSkipsNetwork(t *testing.T) {
	api := &fakeAPI{}
	c := newLoaded(t, api)

	require.NoError(t, c.RequestDelete("c1"))
	c.CancelDelete()

	state, target := c.PendingDelete()
	assert.Equal(t, DeleteIdle, state)
	assert.Empty(t, target)
	assert.Empty(t, api.deleteCalls)

	err := c.ConfirmDelete(context.Background())
	assert.ErrorIs(t, err, ErrNoDeletePending)
}

func TestDeleteFailureReturnsToIdle(t *testing.T) {
	api := &fakeAPI{deleteErr: errors.New("409")}
	c := newLoaded(t, api)

	require.NoError(t, c.RequestDelete("c1"))
	require.Error(t, c.ConfirmDelete(context.Background()))

	state, _ := c.PendingDelete()
	assert.Equal(t, DeleteIdle, state)
	assert.Len(t, c.Clients(), 2, "failed delete leaves the page intact")
}

func TestPaginationClamped(t *testing.T) {
	api := &fakeAPI{}
	c := newLoaded(t, api)
	ctx := context.Background()

	require.NoError(t, c.PrevPage(ctx))
	assert.Equal(t, 1, c.Page(), "Prev from page 1 is a no-op")

	require.NoError(t, c.NextPage(ctx))
	assert.Equal(t, 2, c.Page())

	require.NoError(t, c.NextPage(ctx))
	require.NoError(t, c.NextPage(ctx))
	assert.Equal(t, 3, c.Page(), "Next clamps at totalPages")
}
