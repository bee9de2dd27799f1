package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/waste3d/course-marketplace/internal/domain"
	"github.com/waste3d/course-marketplace/internal/infrastructure/repository"
)

// GenerateTrackingLink tags baseURL with UTM parameters in a fixed order.
func GenerateTrackingLink(baseURL, source, medium, name, term, content string) (string, error) {
	return domain.BuildTrackingLink(baseURL, domain.TrackingParams{
		Source:   source,
		Medium:   medium,
		Campaign: name,
		Term:     term,
		Content:  content,
	})
}

func ParseTrackingLink(link string) (domain.TrackingParams, error) {
	return domain.ParseTrackingLink(link)
}

type CampaignInput struct {
	Name        string
	Source      string
	Medium      string
	Term        string
	Content     string
	BaseURL     string
	VendorID    string
	Budget      int64
	TargetSales int64
}

func (uc *CommerceUseCase) LaunchCampaign(ctx context.Context, in CampaignInput) (domain.Campaign, error) {
	if in.Budget < 0 || in.TargetSales < 0 {
		return domain.Campaign{}, domain.Invariant("campaign budget and target must not be negative")
	}
	c := domain.Campaign{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Source:      in.Source,
		Medium:      in.Medium,
		Term:        in.Term,
		Content:     in.Content,
		BaseURL:     in.BaseURL,
		VendorID:    in.VendorID,
		Budget:      in.Budget,
		TargetSales: in.TargetSales,
		IsActive:    true,
		CreatedAt:   uc.clock(),
	}
	link, err := domain.BuildTrackingLink(c.BaseURL, c.Params())
	if err != nil {
		return domain.Campaign{}, err
	}
	c.TrackingLink = link

	err = uc.execute(ctx, func(tx *repository.Tx, _ *events) error {
		repository.Campaigns.Put(tx, c)
		return nil
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	return c, nil
}

func (uc *CommerceUseCase) Campaigns() []domain.Campaign {
	return repository.Campaigns.All(uc.ledger)
}

func (uc *CommerceUseCase) updateCampaign(ctx context.Context, id string, fn func(c *domain.Campaign) error) error {
	return uc.execute(ctx, func(tx *repository.Tx, _ *events) error {
		c, ok := repository.Campaigns.Get(tx, id)
		if !ok {
			return domain.NotFound("campaign", id)
		}
		if err := fn(&c); err != nil {
			return err
		}
		repository.Campaigns.Put(tx, c)
		return nil
	})
}

// RecordCampaignClick counts a visit through the campaign's link. Clicks on
// paused or archived campaigns are ignored.
func (uc *CommerceUseCase) RecordCampaignClick(ctx context.Context, id string) error {
	return uc.updateCampaign(ctx, id, func(c *domain.Campaign) error {
		if c.IsActive && !c.IsArchived {
			c.Clicks++
		}
		return nil
	})
}

func (uc *CommerceUseCase) SetCampaignActive(ctx context.Context, id string, active bool) error {
	return uc.updateCampaign(ctx, id, func(c *domain.Campaign) error {
		if active && c.IsArchived {
			return domain.Invariant("campaign %s is archived", c.ID)
		}
		c.IsActive = active
		return nil
	})
}

// ArchiveCampaign keeps the campaign for reporting but stops it.
func (uc *CommerceUseCase) ArchiveCampaign(ctx context.Context, id string) error {
	return uc.updateCampaign(ctx, id, func(c *domain.Campaign) error {
		c.IsArchived = true
		c.IsActive = false
		return nil
	})
}

func (uc *CommerceUseCase) DeleteCampaign(ctx context.Context, id string) error {
	return uc.execute(ctx, func(tx *repository.Tx, _ *events) error {
		if !repository.Campaigns.Remove(tx, id) {
			return domain.NotFound("campaign", id)
		}
		return nil
	})
}

// AttributeTrackingLink resolves the campaign a tagged link was generated for.
// Archived campaigns are never matched.
func (uc *CommerceUseCase) AttributeTrackingLink(link string) (domain.Campaign, error) {
	p, err := domain.ParseTrackingLink(link)
	if err != nil {
		return domain.Campaign{}, err
	}
	for _, c := range repository.Campaigns.All(uc.ledger) {
		if !c.IsArchived && c.Matches(p) {
			return c, nil
		}
	}
	return domain.Campaign{}, domain.NotFound("campaign", p.Campaign)
}

func (uc *CommerceUseCase) SavePlacement(ctx context.Context, p domain.Placement) (domain.Placement, error) {
	if err := p.Validate(); err != nil {
		return domain.Placement{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	err := uc.execute(ctx, func(tx *repository.Tx, _ *events) error {
		repository.Placements.Put(tx, p)
		return nil
	})
	if err != nil {
		return domain.Placement{}, err
	}
	return p, nil
}

// PlacementLink is the URL a placement sends visitors to.
func (uc *CommerceUseCase) PlacementLink(id string) (string, error) {
	p, ok := repository.Placements.Lookup(uc.ledger, id)
	if !ok {
		return "", domain.NotFound("placement", id)
	}
	return p.ResolvedURL()
}
