package modules

import (
	"net/http"

	handlers "github.com/oksasatya/docvault-api/internal/interface/http"
)

// VaultModule wires the vault lifecycle routes. None of them is guarded.
type VaultModule struct {
	Handler *handlers.VaultHandler
}

func NewVaultModule(h *handlers.VaultHandler) *VaultModule {
	return &VaultModule{Handler: h}
}

func (m *VaultModule) Routes() []Route {
	return []Route{
		route(http.MethodPost, "/vaults/request", GuardNone, m.Handler.Request),
		route(http.MethodGet, "/vaults/user/:userId", GuardNone, m.Handler.ListForUser),
		route(http.MethodGet, "/vaults/requests/all", GuardNone, m.Handler.ListPending),
		route(http.MethodPut, "/vaults/:vaultId/approve", GuardNone, m.Handler.Approve),
		route(http.MethodPut, "/vaults/:vaultId/deny", GuardNone, m.Handler.Deny),
		route(http.MethodPost, "/vaults/:vaultId/upload", GuardNone, m.Handler.UploadURL),
	}
}
