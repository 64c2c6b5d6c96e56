package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/filestorage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type memStorage struct {
	saved map[string][]byte
	types map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{saved: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStorage) Save(_ context.Context, obj filestorage.Object) (string, error) {
	body, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", err
	}
	m.saved[obj.Key] = body
	m.types[obj.Key] = obj.ContentType
	return m.PublicURL(obj.Key), nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.saved, key)
	return nil
}

func (m *memStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

// fileHeader builds a multipart file header the way gin hands it to controllers.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

func newUploadFixture() (*uploadServiceImpl, *memStorage, time.Time) {
	storage := newMemStorage()
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := &uploadServiceImpl{storage: storage, now: func() time.Time { return at }, logger: zerolog.Nop()}
	return svc, storage, at
}

func TestUploadStoresUnderOwnerPrefix(t *testing.T) {
	svc, storage, at := newUploadFixture()
	viewer := models.Viewer{ID: uuid.New(), Authenticated: true}
	content := append(append([]byte{}, pngHeader...), make([]byte, 64)...)

	resp, err := svc.Upload(context.Background(), viewer, filestorage.KindAvatar, fileHeader(t, "Mi Foto Ñandú.PNG", content))
	require.NoError(t, err)

	wantKey := viewer.ID.String() + "/avatar/" + "1741608000000-mi-foto-nandu.png"
	assert.Equal(t, wantKey, resp.Path)
	assert.Equal(t, filestorage.ObjectKey(viewer.ID, filestorage.KindAvatar, "Mi Foto Ñandú.PNG", at), resp.Path)
	assert.Equal(t, "https://cdn.example.com/"+wantKey, resp.URL)
	assert.Equal(t, content, storage.saved[wantKey])
	assert.Equal(t, "image/png", storage.types[wantKey])
}

func TestUploadStripsClientPath(t *testing.T) {
	svc, _, _ := newUploadFixture()
	viewer := models.Viewer{ID: uuid.New(), Authenticated: true}

	resp, err := svc.Upload(context.Background(), viewer, filestorage.KindGallery, fileHeader(t, `..\..\etc\pass wd.png`, pngHeader))
	require.NoError(t, err)
	assert.Equal(t, viewer.ID.String()+"/gallery/1741608000000-pass-wd.png", resp.Path)
}

func TestUploadRejections(t *testing.T) {
	svc, storage, _ := newUploadFixture()
	ctx := context.Background()
	viewer := models.Viewer{ID: uuid.New(), Authenticated: true}

	_, err := svc.Upload(ctx, models.Anonymous(), filestorage.KindAvatar, fileHeader(t, "a.png", pngHeader))
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Upload(ctx, viewer, filestorage.KindAvatar, nil)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.Upload(ctx, viewer, filestorage.KindAvatar, fileHeader(t, "notes.png", []byte("just some text")))
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	big := fileHeader(t, "big.png", pngHeader)
	big.Size = MaxUploadSize + 1
	_, err = svc.Upload(ctx, viewer, filestorage.KindAvatar, big)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	assert.Empty(t, storage.saved)
}
