package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/thip-platform/disclosure-backend/internal/oc4ids"
	"github.com/thip-platform/disclosure-backend/internal/projects/domain"
	"github.com/thip-platform/disclosure-backend/internal/projects/repository"
)

// ProjectService orchestrates document intake and retrieval: decode,
// validate, decompose on the way in; recompose on the way out.
type ProjectService struct {
	ingest  *repository.IngestRepository
	render  *repository.RenderRepository
	deletes *repository.DeleteRepository
}

func NewProjectService(ingest *repository.IngestRepository, render *repository.RenderRepository, deletes *repository.DeleteRepository) *ProjectService {
	return &ProjectService{ingest: ingest, render: render, deletes: deletes}
}

// Create validates and stores a new document, then returns it as persisted.
// A missing or non-UUID document id is replaced with a fresh one; that is a
// substitution, never an error.
func (s *ProjectService) Create(ctx context.Context, raw []byte) (*oc4ids.Document, error) {
	doc, err := decodeAndValidate(raw)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		id = uuid.New()
		if doc.ID != "" {
			log.Printf("projects: document id %q is not a UUID, substituting %s", doc.ID, id)
		}
		doc.ID = id.String()
	}

	if err := s.ingest.Create(ctx, id, doc); err != nil {
		return nil, err
	}
	return s.render.Render(ctx, id)
}

// Update replaces the stored graph of a live project with a new document
// under the same id. The body's own id field is ignored.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, raw []byte) (*oc4ids.Document, error) {
	doc, err := decodeAndValidate(raw)
	if err != nil {
		return nil, err
	}
	doc.ID = id.String()

	if err := s.ingest.Replace(ctx, id, doc); err != nil {
		return nil, err
	}
	return s.render.Render(ctx, id)
}

// Get recomposes a live project into its document form.
func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*oc4ids.Document, error) {
	return s.render.Render(ctx, id)
}

// SoftDelete hides a project from every read path while keeping its rows.
func (s *ProjectService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.deletes.SoftDelete(ctx, id)
}

// HardDelete removes the whole graph. It also accepts ids that were already
// soft-deleted.
func (s *ProjectService) HardDelete(ctx context.Context, id uuid.UUID) error {
	return s.deletes.HardDelete(ctx, id)
}

func decodeAndValidate(raw []byte) (*oc4ids.Document, error) {
	doc, err := oc4ids.Decode(raw)
	if err != nil {
		return nil, &domain.ValidationError{Missing: []string{err.Error()}}
	}
	if missing := doc.Validate(); len(missing) > 0 {
		return nil, &domain.ValidationError{Missing: missing}
	}
	return doc, nil
}
