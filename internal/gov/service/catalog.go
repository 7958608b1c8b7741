package service

import (
	"context"
	"log/slog"

	"github.com/janasewa/janasewa/internal/platform/validate"
	"github.com/janasewa/janasewa/pkg/slug"
)

// Catalog orchestrates the service-catalogue use cases.
type Catalog struct {
	repo   Repository
	logger *slog.Logger
}

func NewCatalog(repo Repository, logger *slog.Logger) *Catalog {
	return &Catalog{repo: repo, logger: logger}
}

func (catalog *Catalog) List(context context.Context, includeInactive bool) ([]*Service, error) {
	return catalog.repo.List(context, includeInactive)
}

func (catalog *Catalog) GetBySlug(context context.Context, slugValue string) (*Service, error) {
	return catalog.repo.GetBySlug(context, slugValue)
}

// CreateInput holds the fields for a new catalogue entry.
type CreateInput struct {
	Name        string
	Description string
	Category    string
	Department  string
}

func (catalog *Catalog) Create(context context.Context, input CreateInput) (*Service, error) {
	validator := &validate.Validator{}
	validator.Required("name", input.Name).MaxLen("name", input.Name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entry := &Service{
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		Description: input.Description,
		Category:    input.Category,
		Department:  input.Department,
		IsActive:    true,
	}

	if err := catalog.repo.Create(context, entry); err != nil {
		return nil, err
	}

	catalog.logger.Info("service_created", slog.String("slug", entry.Slug))
	return entry, nil
}

// UpdateInput holds the updatable fields. Nil means unchanged.
type UpdateInput struct {
	Name        *string
	Description *string
	Category    *string
	Department  *string
	IsActive    *bool
}

func (catalog *Catalog) Update(context context.Context, id string, input UpdateInput) (*Service, error) {
	entry, err := catalog.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		entry.Name = *input.Name
		entry.Slug = slug.From(*input.Name)
	}
	if input.Description != nil {
		entry.Description = *input.Description
	}
	if input.Category != nil {
		entry.Category = *input.Category
	}
	if input.Department != nil {
		entry.Department = *input.Department
	}
	if input.IsActive != nil {
		entry.IsActive = *input.IsActive
	}

	if err := catalog.repo.Update(context, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (catalog *Catalog) Delete(context context.Context, id string) error {
	if _, err := catalog.repo.GetByID(context, id); err != nil {
		return err
	}
	return catalog.repo.Delete(context, id)
}
