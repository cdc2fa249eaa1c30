// Package roster manages the paginated client list and the mutations the
// console can apply to it: the paid flag, the trade/broker assignment, and
// deletion. Edits are staged in a draft and hit the server only on an
// explicit save; delete requires an explicit confirmation step.
package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"trader-admin-console/internal/interfaces"
	"trader-admin-console/internal/types"
)

// EditState tracks the trade/broker editing surface.
type EditState int

const (
	EditClosed EditState = iota
	EditOpen
	EditSaving
)

// DeleteState tracks the delete confirmation flow.
type DeleteState int

const (
	DeleteIdle DeleteState = iota
	DeleteConfirmPending
	DeleteInFlight
)

var (
	ErrNoSuchClient    = errors.New("roster: no such client on the current page")
	ErrNotEditing      = errors.New("roster: no edit in progress")
	ErrEditInProgress  = errors.New("roster: an edit is already in progress")
	ErrNoDeletePending = errors.New("roster: no delete awaiting confirmation")
)

// Draft is the in-memory working copy of a client's assignment. Mutations
// apply here only; nothing reaches the server before Save.
type Draft struct {
	ClientID string
	Broker   string
	tags     map[string]bool
}

// Tags returns the selected instrument tags in stable order.
func (d *Draft) Tags() []string {
	out := make([]string, 0, len(d.tags))
	for tag, on := range d.tags {
		if on {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

func (d *Draft) Has(tag string) bool { return d.tags[tag] }

// Controller owns the roster page cache. Single-writer: only its own
// methods mutate the held page.
type Controller struct {
	mu    sync.Mutex
	api   interfaces.AdminAPI
	limit int

	clients    []types.Client
	page       int
	totalPages int
	loading    bool

	editState EditState
	draft     *Draft

	deleteState  DeleteState
	deleteTarget string
}

func New(api interfaces.AdminAPI, limit int) *Controller {
	return &Controller{
		api:        api,
		limit:      limit,
		page:       1,
		totalPages: 1,
	}
}

// Load fetches the given roster page, clamped to [1, totalPages].
func (c *Controller) Load(ctx context.Context, page int) error {
	c.mu.Lock()
	if page < 1 {
		page = 1
	}
	if page > c.totalPages {
		page = c.totalPages
	}
	c.loading = true
	c.mu.Unlock()

	out, err := c.api.Clients(ctx, page, c.limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		return err
	}
	c.clients = out.Clients
	c.page = page
	c.totalPages = out.TotalPages
	if c.totalPages < 1 {
		c.totalPages = 1
	}
	return nil
}

// NextPage and PrevPage preserve the clamp semantics of the trades view.
func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.page >= c.totalPages {
		c.mu.Unlock()
		return nil
	}
	next := c.page + 1
	c.mu.Unlock()
	return c.Load(ctx, next)
}

func (c *Controller) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	if c.page <= 1 {
		c.mu.Unlock()
		return nil
	}
	prev := c.page - 1
	c.mu.Unlock()
	return c.Load(ctx, prev)
}

// reloadLocked re-fetches the current page in place. Caller holds c.mu.
func (c *Controller) reloadLocked(ctx context.Context) error {
	page := c.page
	c.mu.Unlock()
	err := c.Load(ctx, page)
	c.mu.Lock()
	return err
}

func (c *Controller) findLocked(clientID string) (int, bool) {
	for i := range c.clients {
		if c.clients[i].ID == clientID {
			return i, true
		}
	}
	return -1, false
}

// TogglePaid flips a client's paid flag. The patch carries only isPaid;
// on success just that row is updated in place, no refetch. On failure the
// row is left as it was and the error is surfaced.
func (c *Controller) TogglePaid(ctx context.Context, clientID string) error {
	c.mu.Lock()
	i, ok := c.findLocked(clientID)
	if !ok {
		c.mu.Unlock()
		return ErrNoSuchClient
	}
	newValue := !c.clients[i].IsPaid
	c.mu.Unlock()

	if err := c.api.SetPaid(ctx, clientID, newValue); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Re-resolve: the page may have been reloaded while the patch flew.
	if j, ok := c.findLocked(clientID); ok {
		c.clients[j].IsPaid = newValue
	}
	return nil
}

// BeginEdit snapshots a client into a fresh draft and opens the editor.
func (c *Controller) BeginEdit(clientID string) (*Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editState != EditClosed {
		return nil, ErrEditInProgress
	}
	i, ok := c.findLocked(clientID)
	if !ok {
		return nil, ErrNoSuchClient
	}

	d := &Draft{
		ClientID: clientID,
		Broker:   c.clients[i].Broker,
		tags:     make(map[string]bool, len(types.InstrumentTags)),
	}
	for _, tag := range c.clients[i].Trade {
		d.tags[tag] = true
	}
	c.draft = d
	c.editState = EditOpen
	return d, nil
}

// ToggleTag flips one instrument tag in the draft. Set semantics: toggling
// twice restores the original membership, duplicates are impossible.
func (c *Controller) ToggleTag(tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editState != EditOpen {
		return ErrNotEditing
	}
	if !types.ValidInstrumentTag(tag) {
		return fmt.Errorf("roster: unknown instrument tag %q", tag)
	}
	c.draft.tags[tag] = !c.draft.tags[tag]
	return nil
}

// SetBroker sets the draft's broker. Empty clears the assignment.
func (c *Controller) SetBroker(broker string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editState != EditOpen {
		return ErrNotEditing
	}
	if !types.ValidBroker(broker) {
		return fmt.Errorf("roster: unknown broker %q", broker)
	}
	c.draft.Broker = broker
	return nil
}

// SaveEdit sends the draft to the server. Success closes the editor and
// re-lists the current page. Failure returns to the editing state with the
// draft intact so the admin's unsaved selections are never discarded.
func (c *Controller) SaveEdit(ctx context.Context) error {
	c.mu.Lock()
	if c.editState != EditOpen {
		c.mu.Unlock()
		return ErrNotEditing
	}
	c.editState = EditSaving
	clientID := c.draft.ClientID
	tags := c.draft.Tags()
	broker := c.draft.Broker
	c.mu.Unlock()

	err := c.api.UpdateTradesAndBroker(ctx, clientID, tags, broker)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.editState = EditOpen
		return err
	}
	c.editState = EditClosed
	c.draft = nil
	return c.reloadLocked(ctx)
}

// CancelEdit discards the draft without any network call.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editState = EditClosed
	c.draft = nil
}

// RequestDelete captures the target and waits for explicit confirmation.
func (c *Controller) RequestDelete(clientID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.findLocked(clientID); !ok {
		return ErrNoSuchClient
	}
	c.deleteState = DeleteConfirmPending
	c.deleteTarget = clientID
	return nil
}

// ConfirmDelete performs the pending delete. Success re-lists the current
// page; the page may come back one row short until the next navigation,
// which is accepted. Either way the flow returns to idle.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.deleteState != DeleteConfirmPending {
		c.mu.Unlock()
		return ErrNoDeletePending
	}
	c.deleteState = DeleteInFlight
	target := c.deleteTarget
	c.mu.Unlock()

	err := c.api.DeleteClient(ctx, target)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteState = DeleteIdle
	c.deleteTarget = ""
	if err != nil {
		return err
	}
	return c.reloadLocked(ctx)
}

// CancelDelete abandons the pending delete without a network call.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteState = DeleteIdle
	c.deleteTarget = ""
}

// Accessors.

func (c *Controller) Clients() []types.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.Client, len(c.clients))
	copy(out, c.clients)
	return out
}

// Limit is the fixed page size used for row numbering in the view.
func (c *Controller) Limit() int { return c.limit }

func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) Editing() (EditState, *Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editState, c.draft
}

func (c *Controller) PendingDelete() (DeleteState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteState, c.deleteTarget
}
