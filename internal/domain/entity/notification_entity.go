package entity

import "time"

// Notification is an unread/read message addressed to one user.
// Requester is only populated on the admin feed.
type Notification struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user"`
	Message   string       `json:"message"`
	IsRead    bool         `json:"isRead"`
	Link      string       `json:"link,omitempty"`
	VaultName string       `json:"vaultName"`
	Requester *UserSummary `json:"requester,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
