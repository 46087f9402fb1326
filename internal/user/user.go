package user

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RedemptionLog records one past bonus redemption by an account.
type RedemptionLog struct {
	RuleName   string
	RedeemedAt time.Time
}

// Account is a known customer with a redemption history. It satisfies the
// customer contract consumed by the order pipeline.
type Account struct {
	id          uuid.UUID
	name        string
	redemptions []RedemptionLog
}

// NewAccount constructs an account with the given redemption history.
func NewAccount(id uuid.UUID, name string, history ...RedemptionLog) *Account {
	return &Account{id: id, name: name, redemptions: history}
}

// ID returns the account identifier.
func (a *Account) ID() uuid.UUID { return a.id }

// Name returns the display name.
func (a *Account) Name() string { return a.name }

// RedemptionCount returns how many bonus redemptions the account has made.
func (a *Account) RedemptionCount() int { return len(a.redemptions) }

// Record appends a redemption to the history.
func (a *Account) Record(log RedemptionLog) {
	a.redemptions = append(a.redemptions, log)
}

// Directory is an in-memory account lookup used by the quote surface and the
// demo tooling. Real deployments would back this with the account service.
type Directory struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*Account
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{accounts: make(map[uuid.UUID]*Account)}
}

// Put registers an account, replacing any previous entry with the same ID.
func (d *Directory) Put(a *Account) {
	if a == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts[a.ID()] = a
}

// Find returns the account for the given ID.
func (d *Directory) Find(id uuid.UUID) (*Account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.accounts[id]
	return a, ok
}
