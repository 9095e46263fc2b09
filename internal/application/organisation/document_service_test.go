package organisation

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/document"
	"github.com/ffe/backend/internal/domain/shared"
)

func TestDocumentService_Attach(t *testing.T) {
	ctx := context.Background()

	t.Run("stores under the organisation prefix", func(t *testing.T) {
		orgRepo := new(MockOrganisationRepository)
		store := new(MockDocumentStore)
		org := testOrganisation()
		body := strings.NewReader("%PDF-1.7")
		prefix := "organisations/" + org.ID.String() + "/governing-documents/"

		orgRepo.On("FindByID", ctx, org.ID).Return(org, nil)
		store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, prefix) && strings.HasSuffix(key, ".pdf")
		}), "Constitution.PDF", "application/pdf", body, int64(8)).
			Return(&document.Document{Key: prefix + "x.pdf", Filename: "Constitution.PDF"}, nil)

		doc, err := NewDocumentService(orgRepo, store, zap.NewNop()).
			Attach(ctx, org.ID, "Constitution.PDF", "application/pdf", body, 8)
		require.NoError(t, err)
		assert.Equal(t, "Constitution.PDF", doc.Filename)
		store.AssertExpectations(t)
	})

	t.Run("rejects unsupported files before storing", func(t *testing.T) {
		orgRepo := new(MockOrganisationRepository)
		store := new(MockDocumentStore)
		org := testOrganisation()
		orgRepo.On("FindByID", ctx, org.ID).Return(org, nil)

		_, err := NewDocumentService(orgRepo, store, zap.NewNop()).
			Attach(ctx, org.ID, "run.exe", "application/x-msdownload", strings.NewReader("MZ"), 2)
		assert.ErrorIs(t, err, document.ErrUnsupportedType)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDocumentService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	orgRepo := new(MockOrganisationRepository)
	store := new(MockDocumentStore)
	org := testOrganisation()
	prefix := GoverningDocumentsPrefix(org.ID)
	service := NewDocumentService(orgRepo, store, zap.NewNop())

	orgRepo.On("FindByID", ctx, org.ID).Return(org, nil)
	store.On("List", ctx, prefix).Return([]document.Document{{Key: prefix + "a.pdf"}}, nil)
	store.On("Delete", ctx, prefix+"a.pdf").Return(nil)

	docs, err := service.List(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, service.Delete(ctx, org.ID, "a.pdf"))
	store.AssertExpectations(t)

	for _, name := range []string{"", "../other/a.pdf", "nested/a.pdf"} {
		err := service.Delete(ctx, org.ID, name)
		assert.ErrorIs(t, err, shared.ErrInvalidInput, name)
	}

	missing := uuid.New()
	orgRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	_, err = service.List(ctx, missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
