package application

import "expvar"

// Counters published on /debug/vars.
var (
	vaultRequests    = expvar.NewInt("vault_requests_total")
	vaultApprovals   = expvar.NewInt("vault_approvals_total")
	vaultDenials     = expvar.NewInt("vault_denials_total")
	documentsCreated = expvar.NewInt("documents_created_total")
	documentsDeleted = expvar.NewInt("documents_deleted_total")
)
