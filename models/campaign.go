package models

import (
	"time"

	"github.com/google/uuid"
)

// CampaignParams holds the generation inputs echoed into a campaign
type CampaignParams struct {
	ProductName    string `json:"product_name"`
	Description    string `json:"description"`
	TargetAudience string `json:"target_audience"`
	Keywords       string `json:"keywords"`
	Platform       string `json:"platform"`
	Tone           string `json:"tone"`
}

// Campaign represents a generated marketing campaign owned by a single user
type Campaign struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"-"` // Owner, never exposed
	CampaignParams
	GeneratedContent string    `json:"generated_content"`
	CreatedAt        time.Time `json:"created_at"`
}
