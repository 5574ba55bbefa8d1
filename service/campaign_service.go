package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"marketly-backend/models"
	"marketly-backend/repository"
	"marketly-backend/storage"

	"github.com/google/uuid"
)

// Generator produces campaign copy from campaign parameters
type Generator interface {
	Generate(ctx context.Context, params models.CampaignParams) (string, error)
}

// CampaignService handles generation and the owner-scoped campaign ledger
type CampaignService struct {
	store     repository.Store
	generator Generator
	archive   storage.Storage
	logger    *slog.Logger
}

// CampaignServiceOption is a functional option for CampaignService
type CampaignServiceOption func(*CampaignService)

// CampaignWithStore sets the backing store
func CampaignWithStore(store repository.Store) CampaignServiceOption {
	return func(s *CampaignService) {
		s.store = store
	}
}

// CampaignWithGenerator sets the content generator
func CampaignWithGenerator(generator Generator) CampaignServiceOption {
	return func(s *CampaignService) {
		s.generator = generator
	}
}

// CampaignWithArchive sets the storage that keeps a text copy of each
// campaign. Without it no archive is written.
func CampaignWithArchive(archive storage.Storage) CampaignServiceOption {
	return func(s *CampaignService) {
		s.archive = archive
	}
}

// CampaignWithLogger sets the logger
func CampaignWithLogger(logger *slog.Logger) CampaignServiceOption {
	return func(s *CampaignService) {
		s.logger = logger
	}
}

// NewCampaignService creates a new campaign service
func NewCampaignService(opts ...CampaignServiceOption) *CampaignService {
	s := &CampaignService{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateCampaignRequest represents a request to generate campaign copy.
// OwnerID is nil for anonymous callers, in which case nothing is stored.
type GenerateCampaignRequest struct {
	OwnerID *uuid.UUID
	Params  models.CampaignParams
}

// GenerateCampaignResult represents the result of a generation
type GenerateCampaignResult struct {
	Content  string
	Campaign *models.Campaign
	Saved    bool
}

// GenerateCampaign generates copy and, for authenticated callers, stores it
// as a campaign. A storage failure does not fail the request: the text is
// returned with Saved=false and nothing is persisted.
func (s *CampaignService) GenerateCampaign(ctx context.Context, req GenerateCampaignRequest) (*GenerateCampaignResult, error) {
	if s.generator == nil {
		return nil, errors.New("content generator not set")
	}
	if req.Params.ProductName == "" || req.Params.Description == "" {
		return nil, fmt.Errorf("%w: productName and description are required", ErrInvalidInput)
	}

	content, err := s.generator.Generate(ctx, req.Params)
	if err != nil {
		return nil, err
	}

	result := &GenerateCampaignResult{Content: content}
	if req.OwnerID == nil {
		return result, nil
	}

	campaign, err := s.Create(ctx, *req.OwnerID, req.Params, content)
	if err != nil {
		s.logger.WarnContext(ctx, "campaign not saved", "user_id", *req.OwnerID, "error", err)
		return result, nil
	}

	result.Campaign = campaign
	result.Saved = true
	return result, nil
}

// Create stores a generated campaign for ownerID. The row and its archive
// copy are written together or not at all.
func (s *CampaignService) Create(ctx context.Context, ownerID uuid.UUID, params models.CampaignParams, content string) (*models.Campaign, error) {
	if s.store == nil {
		return nil, errors.New("campaign store not set")
	}

	campaign := &models.Campaign{
		UserID:           ownerID,
		CampaignParams:   params,
		GeneratedContent: content,
	}

	archived := false
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Campaigns().Create(ctx, campaign); err != nil {
			return fmt.Errorf("create campaign: %w", err)
		}
		if s.archive != nil {
			key := storage.CampaignArchiveKey(ownerID, campaign.ID)
			if err := s.archive.Upload(ctx, key, strings.NewReader(content)); err != nil {
				return fmt.Errorf("archive campaign: %w", err)
			}
			archived = true
		}
		return nil
	})
	if err != nil {
		if archived {
			// the commit failed after the upload succeeded
			s.removeArchive(ctx, ownerID, campaign.ID)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "campaign created", "user_id", ownerID, "campaign_id", campaign.ID)
	return campaign, nil
}

// ListByOwner returns ownerID's campaigns, newest first
func (s *CampaignService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Campaign, error) {
	if s.store == nil {
		return nil, errors.New("campaign store not set")
	}

	campaigns, err := s.store.Campaigns().ListByUserID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	if campaigns == nil {
		campaigns = make([]*models.Campaign, 0)
	}
	return campaigns, nil
}

// DeleteByOwnerAndID removes one of ownerID's campaigns. Campaigns that do
// not exist and campaigns owned by someone else both yield
// ErrCampaignNotFound.
func (s *CampaignService) DeleteByOwnerAndID(ctx context.Context, ownerID, campaignID uuid.UUID) error {
	if s.store == nil {
		return errors.New("campaign store not set")
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Campaigns().DeleteByUserIDAndID(ctx, ownerID, campaignID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCampaignNotFound
			}
			return fmt.Errorf("delete campaign: %w", err)
		}
		if s.archive != nil {
			if err := s.archive.Delete(ctx, storage.CampaignArchiveKey(ownerID, campaignID)); err != nil {
				return fmt.Errorf("delete campaign archive: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "campaign deleted", "user_id", ownerID, "campaign_id", campaignID)
	return nil
}

// CampaignDownload is a campaign's content ready to be sent as a file
type CampaignDownload struct {
	Filename string
	Body     io.ReadCloser
}

// Download returns the text of one of ownerID's campaigns, preferring the
// archived copy and falling back to the stored content.
func (s *CampaignService) Download(ctx context.Context, ownerID, campaignID uuid.UUID) (*CampaignDownload, error) {
	if s.store == nil {
		return nil, errors.New("campaign store not set")
	}

	campaign, err := s.store.Campaigns().GetByUserIDAndID(ctx, ownerID, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("load campaign: %w", err)
	}

	download := &CampaignDownload{
		Filename: fmt.Sprintf("campaign-%s.txt", campaign.ID),
	}

	if s.archive != nil {
		body, err := s.archive.Download(ctx, storage.CampaignArchiveKey(ownerID, campaign.ID))
		if err == nil {
			download.Body = body
			return download, nil
		}
		if !errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.WarnContext(ctx, "campaign archive unavailable", "campaign_id", campaign.ID, "error", err)
		}
	}

	download.Body = io.NopCloser(bytes.NewReader([]byte(campaign.GeneratedContent)))
	return download, nil
}

func (s *CampaignService) removeArchive(ctx context.Context, ownerID, campaignID uuid.UUID) {
	if err := s.archive.Delete(ctx, storage.CampaignArchiveKey(ownerID, campaignID)); err != nil {
		s.logger.WarnContext(ctx, "orphaned campaign archive", "campaign_id", campaignID, "error", err)
	}
}
