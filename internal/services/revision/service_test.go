package revisionservice

import (
	"bytes"
	"context"
	"docvault/internal/models"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) ApplyUpdate(ctx context.Context, doc *models.Document, expectedVersion int, snapshot *models.Revision) error {
	args := m.Called(ctx, doc, expectedVersion, snapshot)
	return args.Error(0)
}

type MockRevisionRepository struct {
	mock.Mock
}

func (m *MockRevisionRepository) ListByDocument(ctx context.Context, documentID string) ([]*models.Revision, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).([]*models.Revision), args.Error(1)
}

func (m *MockRevisionRepository) ByVersion(ctx context.Context, documentID string, version int) (*models.Revision, error) {
	args := m.Called(ctx, documentID, version)
	return args.Get(0).(*models.Revision), args.Error(1)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Save(ctx context.Context, reader io.Reader, hint string) (string, error) {
	args := m.Called(ctx, reader, hint)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, locator string) error {
	args := m.Called(ctx, locator)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func strPtr(s string) *string {
	return &s
}

func storedDoc() *models.Document {
	return &models.Document{
		ID:             "doc1",
		OwnerID:        "user1",
		Title:          "notes",
		Content:        "first draft",
		Description:    "initial",
		CurrentVersion: 3,
	}
}

func TestApplyUpdate_DescriptionChangeSnapshotsPriorState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	doc := storedDoc()

	mockRepo.On("DocumentByID", ctx, "doc1").Return(doc, nil)
	mockRepo.On("ApplyUpdate", ctx, mock.MatchedBy(func(updated *models.Document) bool {
		return updated.CurrentVersion == 4 && updated.Description == "reworked"
	}), 3, mock.MatchedBy(func(snapshot *models.Revision) bool {
		return snapshot != nil &&
			snapshot.Version == 4 &&
			snapshot.Title == "notes" &&
			snapshot.Content == "first draft" &&
			snapshot.Description == "initial"
	})).Return(nil)
	mockCache.On("Del", ctx, []string{"doc1", "docs:user1"}).Return(nil)

	updated, err := service.ApplyUpdate(ctx, "doc1", "user1", models.DocumentPatch{
		Description: strPtr("reworked"),
	}, "", nil)

	require.NoError(t, err)
	assert.Equal(t, 4, updated.CurrentVersion)
	assert.Equal(t, "reworked", updated.Description)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestApplyUpdate_ContentOnlyChangeDoesNotVersion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	doc := storedDoc()

	mockRepo.On("DocumentByID", ctx, "doc1").Return(doc, nil)
	mockRepo.On("ApplyUpdate", ctx, mock.MatchedBy(func(updated *models.Document) bool {
		return updated.CurrentVersion == 3 && updated.Content == "second draft"
	}), 3, (*models.Revision)(nil)).Return(nil)
	mockCache.On("Del", ctx, []string{"doc1", "docs:user1"}).Return(nil)

	updated, err := service.ApplyUpdate(ctx, "doc1", "user1", models.DocumentPatch{
		Title:   strPtr("notes v2"),
		Content: strPtr("second draft"),
	}, "", nil)

	require.NoError(t, err)
	assert.Equal(t, 3, updated.CurrentVersion)
	assert.Equal(t, "notes v2", updated.Title)
	mockRepo.AssertExpectations(t)
}

func TestApplyUpdate_IdenticalDescriptionDoesNotVersion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	doc := storedDoc()

	mockRepo.On("DocumentByID", ctx, "doc1").Return(doc, nil)
	mockRepo.On("ApplyUpdate", ctx, mock.Anything, 3, (*models.Revision)(nil)).Return(nil)
	mockCache.On("Del", ctx, []string{"doc1", "docs:user1"}).Return(nil)

	updated, err := service.ApplyUpdate(ctx, "doc1", "user1", models.DocumentPatch{
		Description: strPtr("initial"),
	}, "", nil)

	require.NoError(t, err)
	assert.Equal(t, 3, updated.CurrentVersion)
	mockRepo.AssertExpectations(t)
}

func TestApplyUpdate_SequentialDescriptionChanges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	doc := &models.Document{ID: "doc1", OwnerID: "user1", Description: "a", CurrentVersion: 0}

	mockRepo.On("DocumentByID", ctx, "doc1").Return(doc, nil).Once()
	mockRepo.On("ApplyUpdate", ctx, mock.Anything, 0, mock.MatchedBy(func(s *models.Revision) bool {
		return s != nil && s.Version == 1 && s.Description == "a"
	})).Return(nil).Once()
	mockCache.On("Del", ctx, []string{"doc1", "docs:user1"}).Return(nil)

	updated, err := service.ApplyUpdate(ctx, "doc1", "user1", models.DocumentPatch{Description: strPtr("b")}, "", nil)
	require.NoError(t, err)
	require.Equal(t, 1, updated.CurrentVersion)

	mockRepo.On("DocumentByID", ctx, "doc1").Return(updated, nil).Once()
	mockRepo.On("ApplyUpdate", ctx, mock.Anything, 1, mock.MatchedBy(func(s *models.Revision) bool {
		return s != nil && s.Version == 2 && s.Description == "b"
	})).Return(nil).Once()

	updated, err = service.ApplyUpdate(ctx, "doc1", "user1", models.DocumentPatch{Description: strPtr("c")}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurrentVersion)
	mockRepo.AssertExpectations(t)
}

func TestApplyUpdate_VersionConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	doc := storedDoc()

	mockRepo.On("DocumentByID", ctx, "doc1").Return(doc, nil)
	mockRepo.On("ApplyUpdate", ctx, mock.Anything, 3, mock.Anything).Return(models.ErrVersionConflict)

	updated, err := service.ApplyUpdate(ctx, "doc1", "user1", models.DocumentPatch{
		Description: strPtr("changed"),
	}, "", nil)

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, models.ErrVersionConflict)
	mockCache.AssertNotCalled(t, "Del", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestApplyUpdate_NotOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	mockRepo.On("DocumentByID", ctx, "doc1").Return(storedDoc(), nil)

	updated, err := service.ApplyUpdate(ctx, "doc1", "intruder", models.DocumentPatch{
		Title: strPtr("mine now"),
	}, "", nil)

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, models.ErrForbidden)
	mockRepo.AssertNotCalled(t, "ApplyUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyUpdate_DocumentNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	mockRepo.On("DocumentByID", ctx, "missing").Return((*models.Document)(nil), models.ErrDocumentNotFound)

	updated, err := service.ApplyUpdate(ctx, "missing", "user1", models.DocumentPatch{}, "", nil)

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
}

func TestApplyUpdate_NewBlobRemovedOnFailedCommit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	doc := storedDoc()

	mockRepo.On("DocumentByID", ctx, "doc1").Return(doc, nil)
	mockBlobs.On("Save", ctx, mock.Anything, "draft.txt").Return("blobs/new", nil)
	mockRepo.On("ApplyUpdate", ctx, mock.Anything, 3, mock.Anything).Return(errors.New("db down"))
	mockBlobs.On("Delete", ctx, "blobs/new").Return(nil)

	updated, err := service.ApplyUpdate(ctx, "doc1", "user1", models.DocumentPatch{}, "draft.txt", bytes.NewReader([]byte("data")))

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, models.ErrInternal)
	mockBlobs.AssertExpectations(t)
}

func TestApplyUpdate_SupersededBlobDeletedAfterCommit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	doc := storedDoc()
	doc.BlobLocator = "blobs/old"

	deleted := make(chan string, 1)

	mockRepo.On("DocumentByID", ctx, "doc1").Return(doc, nil)
	mockBlobs.On("Save", ctx, mock.Anything, "draft.txt").Return("blobs/new", nil)
	mockRepo.On("ApplyUpdate", ctx, mock.Anything, 3, mock.Anything).Return(nil)
	mockCache.On("Del", ctx, []string{"doc1", "docs:user1"}).Return(nil)
	mockBlobs.On("Delete", mock.Anything, "blobs/old").Run(func(args mock.Arguments) {
		deleted <- args.String(1)
	}).Return(nil)

	updated, err := service.ApplyUpdate(ctx, "doc1", "user1", models.DocumentPatch{}, "draft.txt", bytes.NewReader([]byte("data")))

	require.NoError(t, err)
	assert.Equal(t, "blobs/new", updated.BlobLocator)

	select {
	case locator := <-deleted:
		assert.Equal(t, "blobs/old", locator)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded blob was not deleted")
	}
}

func TestListRevisions_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	revs := []*models.Revision{
		{ID: "r2", DocumentID: "doc1", Version: 2},
		{ID: "r1", DocumentID: "doc1", Version: 1},
	}

	mockRepo.On("DocumentByID", ctx, "doc1").Return(storedDoc(), nil)
	mockRevs.On("ListByDocument", ctx, "doc1").Return(revs, nil)

	got, err := service.ListRevisions(ctx, "doc1", "user1")

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Version)
	mockRevs.AssertExpectations(t)
}

func TestListRevisions_NotOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	mockRepo.On("DocumentByID", ctx, "doc1").Return(storedDoc(), nil)

	got, err := service.ListRevisions(ctx, "doc1", "someone-else")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, models.ErrForbidden)
	mockRevs.AssertNotCalled(t, "ListByDocument", mock.Anything, mock.Anything)
}

func TestRevisionByVersion_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	rev := &models.Revision{ID: "r2", DocumentID: "doc1", Version: 2, Title: "draft"}

	mockRepo.On("DocumentByID", ctx, "doc1").Return(storedDoc(), nil)
	mockRevs.On("ByVersion", ctx, "doc1", 2).Return(rev, nil)

	got, err := service.RevisionByVersion(ctx, "doc1", "user1", 2)

	require.NoError(t, err)
	assert.Equal(t, "r2", got.ID)
	assert.Equal(t, 2, got.Version)
	mockRevs.AssertExpectations(t)
}

func TestRevisionByVersion_MissingVersion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	mockRepo.On("DocumentByID", ctx, "doc1").Return(storedDoc(), nil)
	mockRevs.On("ByVersion", ctx, "doc1", 9).Return((*models.Revision)(nil), models.ErrNoRows)

	got, err := service.RevisionByVersion(ctx, "doc1", "user1", 9)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, models.ErrRevisionNotFound)
}

func TestRevisionByVersion_NotOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockRevs := new(MockRevisionRepository)
	mockCache := new(MockCache)
	mockBlobs := new(MockBlobStore)
	service := New(slog.Default(), mockRepo, mockRevs, mockCache, mockBlobs)

	mockRepo.On("DocumentByID", ctx, "doc1").Return(storedDoc(), nil)

	got, err := service.RevisionByVersion(ctx, "doc1", "someone-else", 1)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, models.ErrForbidden)
	mockRevs.AssertNotCalled(t, "ByVersion", mock.Anything, mock.Anything, mock.Anything)
}
