package handlers

import (
	"github.com/chris/onecard-rewards/pkg/api"
	"github.com/chris/onecard-rewards/pkg/handlers/accounts"
	"github.com/chris/onecard-rewards/pkg/handlers/allocations"
	"github.com/chris/onecard-rewards/pkg/handlers/pending"
	"github.com/chris/onecard-rewards/pkg/queue"
	"github.com/chris/onecard-rewards/pkg/storage"
)

// ApiHandler implements the server interface by composing the per-resource handlers.
type ApiHandler struct {
	*allocations.AllocationsHandler
	*accounts.AccountsHandler
	*pending.PendingHandler
}

// NewApiHandler wires the handlers to their dependencies. enqueuer may be nil.
func NewApiHandler(store storage.AccountStore, allocator allocations.Allocator, ledger pending.Ledger, enqueuer queue.Enqueuer) *ApiHandler {
	return &ApiHandler{
		AllocationsHandler: allocations.NewAllocationsHandler(allocator, enqueuer),
		AccountsHandler:    accounts.NewAccountsHandler(store),
		PendingHandler:     pending.NewPendingHandler(ledger),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)
