package model

import (
	"encoding/json"
	"time"
)

const (
	ProviderSpotify = "SPOTIFY"
	ProviderNotion  = "NOTION"
)

// Integration holds the OAuth token a user granted to a third-party provider.
type Integration struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	Provider     string     `db:"provider"`
	AccessToken  string     `db:"access_token"`
	RefreshToken *string    `db:"refresh_token"`
	ExpiresAt    *time.Time `db:"expires_at"`
	Metadata     string     `db:"metadata"` // provider specific JSON
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

type NotionMetadata struct {
	WorkspaceName string `json:"workspaceName"`
	WorkspaceIcon string `json:"workspaceIcon,omitempty"`
}

func (i *Integration) NotionMetadata() NotionMetadata {
	var meta NotionMetadata
	if i.Metadata != "" {
		_ = json.Unmarshal([]byte(i.Metadata), &meta)
	}
	return meta
}
