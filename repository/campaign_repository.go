package repository

import (
	"context"

	"marketly-backend/models"

	"github.com/google/uuid"
)

// PostgresCampaignRepository handles database operations for campaigns
type PostgresCampaignRepository struct {
	db DBTX
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db DBTX) *PostgresCampaignRepository {
	return &PostgresCampaignRepository{db: db}
}

const campaignColumns = `id, user_id, product_name, description, target_audience,
			keywords, platform, tone, generated_content, created_at`

// Create inserts a campaign and fills in its ID and CreatedAt
func (r *PostgresCampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	query := `
		INSERT INTO campaigns (
			user_id, product_name, description, target_audience,
			keywords, platform, tone, generated_content
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		campaign.UserID,
		campaign.ProductName,
		campaign.Description,
		campaign.TargetAudience,
		campaign.Keywords,
		campaign.Platform,
		campaign.Tone,
		campaign.GeneratedContent,
	).Scan(&campaign.ID, &campaign.CreatedAt)

	return mapError(err)
}

// ListByUserID retrieves all campaigns of a user, newest first
func (r *PostgresCampaignRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	campaigns := make([]*models.Campaign, 0)
	for rows.Next() {
		campaign := &models.Campaign{}
		if err := rows.Scan(campaignFields(campaign)...); err != nil {
			return nil, mapError(err)
		}
		campaigns = append(campaigns, campaign)
	}

	return campaigns, mapError(rows.Err())
}

// GetByUserIDAndID retrieves a single campaign owned by userID
func (r *PostgresCampaignRepository) GetByUserIDAndID(ctx context.Context, userID, id uuid.UUID) (*models.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE id = $1 AND user_id = $2`

	campaign := &models.Campaign{}
	if err := r.db.QueryRow(ctx, query, id, userID).Scan(campaignFields(campaign)...); err != nil {
		return nil, mapError(err)
	}
	return campaign, nil
}

// DeleteByUserIDAndID deletes a campaign owned by userID. A campaign that
// exists under another owner is reported as ErrNotFound.
func (r *PostgresCampaignRepository) DeleteByUserIDAndID(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM campaigns WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func campaignFields(c *models.Campaign) []any {
	return []any{
		&c.ID,
		&c.UserID,
		&c.ProductName,
		&c.Description,
		&c.TargetAudience,
		&c.Keywords,
		&c.Platform,
		&c.Tone,
		&c.GeneratedContent,
		&c.CreatedAt,
	}
}
