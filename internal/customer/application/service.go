package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hverma21/order-fulfillment-platform/internal/customer/domain"
)

type Service struct {
	repo CustomerRepository
}

func NewService(repo CustomerRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, c domain.Customer) (string, error) {
	if c.FirstName == "" || c.LastName == "" || c.Email == "" {
		return "", domain.ErrInvalidCustomer
	}
	c.ID = uuid.NewString()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.repo.Save(ctx, c); err != nil {
		return "", fmt.Errorf("save customer: %w", err)
	}
	return c.ID, nil
}

func (s *Service) Update(ctx context.Context, c domain.Customer) error {
	if c.FirstName == "" || c.LastName == "" || c.Email == "" {
		return domain.ErrInvalidCustomer
	}
	existing, err := s.repo.FindByID(ctx, c.ID)
	if err != nil {
		return err
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	return s.repo.Save(ctx, c)
}

func (s *Service) FindByID(ctx context.Context, id string) (domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) FindAll(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
