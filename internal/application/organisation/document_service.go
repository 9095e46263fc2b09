package organisation

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/document"
	"github.com/ffe/backend/internal/domain/organisation"
	"github.com/ffe/backend/internal/domain/shared"
)

// DocumentService stores an organisation's governing documents
type DocumentService struct {
	orgRepo organisation.OrganisationRepository
	store   document.Store
	logger  *zap.Logger
}

// NewDocumentService creates a DocumentService
func NewDocumentService(orgRepo organisation.OrganisationRepository, store document.Store, logger *zap.Logger) *DocumentService {
	return &DocumentService{orgRepo: orgRepo, store: store, logger: logger}
}

// GoverningDocumentsPrefix is the key prefix for an organisation's governing documents
func GoverningDocumentsPrefix(orgID uuid.UUID) string {
	return fmt.Sprintf("organisations/%s/governing-documents/", orgID.String())
}

// Attach uploads a governing document
func (s *DocumentService) Attach(
	ctx context.Context,
	orgID uuid.UUID,
	filename, contentType string,
	body io.Reader,
	size int64,
) (*document.Document, error) {
	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return nil, err
	}
	if err := document.Accept(contentType, size); err != nil {
		return nil, err
	}

	// Format: organisations/{orgID}/governing-documents/{uniqueID}{ext}
	key := GoverningDocumentsPrefix(orgID) + uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	doc, err := s.store.Put(ctx, key, filename, contentType, body, size)
	if err != nil {
		s.logger.Error("Failed to store governing document",
			zap.String("organisation_id", orgID.String()),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}
	return doc, nil
}

// List returns the organisation's governing documents
func (s *DocumentService) List(ctx context.Context, orgID uuid.UUID) ([]document.Document, error) {
	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return nil, err
	}
	return s.store.List(ctx, GoverningDocumentsPrefix(orgID))
}

// Delete removes one governing document. name is the last segment of its key.
func (s *DocumentService) Delete(ctx context.Context, orgID uuid.UUID, name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return shared.ErrInvalidInput.WithMessage("invalid document name")
	}
	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return err
	}
	return s.store.Delete(ctx, GoverningDocumentsPrefix(orgID)+name)
}
