package docs

import (
	"bytes"
	"context"
	"docvault/internal/models"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDocumentUpdater struct {
	mock.Mock
}

func (m *mockDocumentUpdater) ApplyUpdate(ctx context.Context, docID string, requesterID string, patch models.DocumentPatch, filename string, file io.Reader) (*models.Document, error) {
	args := m.Called(ctx, docID, requesterID, patch, filename, file)
	var doc *models.Document
	if args.Get(0) != nil {
		doc = args.Get(0).(*models.Document)
	}
	return doc, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func multipartRequest(t *testing.T, meta string) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("meta", meta))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/documents/doc1", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req.WithContext(context.WithValue(req.Context(), models.UserContextKey, &models.User{ID: "user1"}))
}

func TestUpdate_Success(t *testing.T) {
	t.Parallel()

	req := multipartRequest(t, `{"description": "reworked"}`)
	w := httptest.NewRecorder()

	updated := &models.Document{ID: "doc1", Description: "reworked", CurrentVersion: 2}

	updater := new(mockDocumentUpdater)
	updater.On("ApplyUpdate", mock.Anything, "doc1", "user1", mock.MatchedBy(func(patch models.DocumentPatch) bool {
		return patch.Title == nil && patch.Description != nil && *patch.Description == "reworked"
	}), "", nil).Return(updated, nil)

	Update(req.Context(), discardLogger(), w, req, "doc1", updater)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]map[string]any
	err := json.NewDecoder(resp.Body).Decode(&parsed)
	require.NoError(t, err)
	assert.Equal(t, float64(2), parsed["data"]["version"])
	updater.AssertExpectations(t)
}

func TestUpdate_StatusMapping(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		cause error
		want  int
	}{
		"not found": {models.ErrDocumentNotFound, http.StatusNotFound},
		"forbidden": {models.ErrForbidden, http.StatusForbidden},
		"conflict":  {models.ErrVersionConflict, http.StatusConflict},
		"bad input": {models.ErrInvalidParams, http.StatusBadRequest},
		"internal":  {models.ErrInternal, http.StatusInternalServerError},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			req := multipartRequest(t, `{"title": "anything"}`)
			w := httptest.NewRecorder()

			updater := new(mockDocumentUpdater)
			updater.On("ApplyUpdate", mock.Anything, "doc1", "user1", mock.Anything, "", nil).
				Return(nil, tc.cause)

			Update(req.Context(), discardLogger(), w, req, "doc1", updater)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestUpdate_InvalidMeta(t *testing.T) {
	t.Parallel()

	req := multipartRequest(t, `{not json}`)
	w := httptest.NewRecorder()

	updater := new(mockDocumentUpdater)

	Update(req.Context(), discardLogger(), w, req, "doc1", updater)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	updater.AssertNotCalled(t, "ApplyUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_NoSession(t *testing.T) {
	t.Parallel()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("meta", `{}`))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/documents/doc1", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()

	Update(req.Context(), discardLogger(), w, req, "doc1", new(mockDocumentUpdater))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
