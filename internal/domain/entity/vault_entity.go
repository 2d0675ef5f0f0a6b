package entity

import "time"

type VaultStatus string

const (
	VaultProcessing VaultStatus = "Processing"
	VaultActive     VaultStatus = "Active"
	VaultDenied     VaultStatus = "Denied"
)

const (
	MinDocumentLimit = 1
	MaxDocumentLimit = 10
)

// Vault is a capacity-bounded container owned by one user.
// Documents holds raw URLs attached through the legacy upload path; records
// created by the document service are counted separately.
type Vault struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user"`
	Name          string       `json:"vaultName"`
	Status        VaultStatus  `json:"status"`
	Reason        string       `json:"reason"`
	Documents     []string     `json:"documents"`
	DocumentLimit int          `json:"documentLimit"`
	Owner         *UserSummary `json:"owner,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Full reports whether count documents already fill the vault.
func (v *Vault) Full(count int) bool {
	return count >= v.DocumentLimit
}

func ValidDocumentLimit(n int) bool {
	return n >= MinDocumentLimit && n <= MaxDocumentLimit
}
