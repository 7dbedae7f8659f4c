package repositories

import (
	"context"
	"errors"
	"fmt"

	"droppay/internal/models"

	"gorm.io/gorm"
)

// LinkRepository reads and writes both payment_links and checkout_links.
// kind selects the table; see models.LinkKindPayment and LinkKindCheckout.
type LinkRepository interface {
	Get(ctx context.Context, kind, id string) (*models.Link, error)
	GetBySlug(ctx context.Context, slug string) (*models.Link, error)
	Create(ctx context.Context, kind string, link *models.PaymentLink) (*models.Link, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]models.Link, error)
	SetActive(ctx context.Context, kind, id, merchantID string, active bool) error
}

type linkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func tableFor(kind string) string {
	if kind == models.LinkKindCheckout {
		return models.CheckoutLink{}.TableName()
	}
	return "payment_links"
}

func (r *linkRepository) Get(ctx context.Context, kind, id string) (*models.Link, error) {
	var link models.PaymentLink
	err := r.db.WithContext(ctx).Table(tableFor(kind)).Where("id = ?", id).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get %s link: %w", kind, err)
	}
	return link.Link(kind), nil
}

func (r *linkRepository) GetBySlug(ctx context.Context, slug string) (*models.Link, error) {
	for _, kind := range []string{models.LinkKindPayment, models.LinkKindCheckout} {
		var link models.PaymentLink
		err := r.db.WithContext(ctx).Table(tableFor(kind)).Where("slug = ?", slug).First(&link).Error
		if err == nil {
			return link.Link(kind), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get %s link: %w", kind, err)
		}
	}
	return nil, ErrLinkNotFound
}

func (r *linkRepository) Create(ctx context.Context, kind string, link *models.PaymentLink) (*models.Link, error) {
	var err error
	if kind == models.LinkKindCheckout {
		row := &models.CheckoutLink{PaymentLink: *link}
		err = r.db.WithContext(ctx).Create(row).Error
		*link = row.PaymentLink
	} else {
		err = r.db.WithContext(ctx).Create(link).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s link: %w", kind, err)
	}
	return link.Link(kind), nil
}

func (r *linkRepository) ListByMerchant(ctx context.Context, merchantID string) ([]models.Link, error) {
	var out []models.Link
	for _, kind := range []string{models.LinkKindPayment, models.LinkKindCheckout} {
		var links []models.PaymentLink
		err := r.db.WithContext(ctx).Table(tableFor(kind)).
			Where("merchant_id = ?", merchantID).
			Order("created_at DESC").
			Find(&links).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list %s links: %w", kind, err)
		}
		for i := range links {
			out = append(out, *links[i].Link(kind))
		}
	}
	return out, nil
}

func (r *linkRepository) SetActive(ctx context.Context, kind, id, merchantID string, active bool) error {
	result := r.db.WithContext(ctx).Table(tableFor(kind)).
		Where("id = ? AND merchant_id = ?", id, merchantID).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}
