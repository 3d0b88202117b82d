package service_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-asset-server/internal/model"
	"photo-asset-server/internal/security"
	"photo-asset-server/internal/service"
)

// fakeVerifier : подставной внешний верификатор админских токенов
type fakeVerifier struct {
	principal *model.AdminPrincipal
}

func (f *fakeVerifier) AdminFromRequest(_ *http.Request) *model.AdminPrincipal {
	return f.principal
}

func newTestGate(admin *model.AdminPrincipal) (*service.AccessGate, *security.DownloadTokenCodec, *service.HashRegistry) {
	codec := security.NewDownloadTokenCodec("gate-secret")
	registry := service.NewHashRegistry(newMemoryHashStore(), time.Hour)
	gate := service.NewAccessGate(codec, registry, &fakeVerifier{principal: admin})
	return gate, codec, registry
}

func photoWithVisibility(visibility string) *model.Photo {
	return &model.Photo{
		ID:        "photo-1",
		ProjectID: "project-1",
		Filename:  "IMG_1.jpg",
		Basename:  "IMG_1",
		Ext:       "jpg",
		Visibility: sql.NullString{
			String: visibility,
			Valid:  visibility != "",
		},
	}
}

func TestCheckSignedRequestOK(t *testing.T) {
	gate, codec, _ := newTestGate(nil)

	token, err := codec.Mint("a1b2", model.KindJPG, "IMG_1.jpg", time.Minute)
	require.NoError(t, err)

	payload, err := gate.CheckSignedRequest(token, "a1b2", model.KindJPG, "IMG_1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a1b2", payload.Folder)
}

// Токен, выпущенный на одну тройку (папка, тип, имя), обязан быть отвергнут
// для любой другой, даже валидный и неистёкший
func TestCheckSignedRequestBinding(t *testing.T) {
	gate, codec, _ := newTestGate(nil)

	token, err := codec.Mint("a1b2", model.KindJPG, "IMG_1.jpg", time.Minute)
	require.NoError(t, err)

	cases := map[string][3]string{
		"другой тип":   {"a1b2", model.KindRaw, "IMG_1.jpg"},
		"другое имя":   {"a1b2", model.KindJPG, "IMG_2.jpg"},
		"другая папка": {"c3d4", model.KindJPG, "IMG_1.jpg"},
	}

	for name, route := range cases {
		_, err := gate.CheckSignedRequest(token, route[0], route[1], route[2])
		require.Error(t, err, name)
		assert.ErrorIs(t, err, service.ErrTokenMismatch, name)
		assert.Equal(t, "Token does not match request", service.ErrTokenMismatch.Error())
	}
}

func TestCheckSignedRequestUnauthorized(t *testing.T) {
	gate, _, _ := newTestGate(nil)

	_, err := gate.CheckSignedRequest("", "a1b2", model.KindJPG, "IMG_1.jpg")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = gate.CheckSignedRequest("garbage.token", "a1b2", model.KindJPG, "IMG_1.jpg")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

// private без админа маскируется под "не найдено": чужим не положено знать,
// что фотография существует
func TestAuthorizeDerivativePrivate(t *testing.T) {
	gate, _, _ := newTestGate(nil)
	r := httptest.NewRequest(http.MethodGet, "/assets/a1b2/preview/IMG_1", nil)

	_, err := gate.AuthorizeDerivative(context.Background(), r, photoWithVisibility(model.VisibilityPrivate))
	assert.ErrorIs(t, err, service.ErrNotFound)

	// отсутствующая visibility означает private
	_, err = gate.AuthorizeDerivative(context.Background(), r, photoWithVisibility(""))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAuthorizeDerivativePrivateAdmin(t *testing.T) {
	admin := &model.AdminPrincipal{ID: "admin-1", Role: security.RoleAdmin}
	gate, _, _ := newTestGate(admin)
	r := httptest.NewRequest(http.MethodGet, "/assets/a1b2/preview/IMG_1", nil)

	decision, err := gate.AuthorizeDerivative(context.Background(), r, photoWithVisibility(model.VisibilityPrivate))
	require.NoError(t, err)
	assert.Equal(t, admin, decision.Admin)
	assert.Nil(t, decision.PublicHash)
}

func TestAuthorizeDerivativePublicAnonymous(t *testing.T) {
	gate, _, registry := newTestGate(nil)
	photo := photoWithVisibility(model.VisibilityPublic)

	// без хэша — 401, причина missing в логе
	r := httptest.NewRequest(http.MethodGet, "/assets/a1b2/preview/IMG_1", nil)
	_, err := gate.AuthorizeDerivative(context.Background(), r, photo)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	record, err := registry.EnsureHash(context.Background(), photo.ID)
	require.NoError(t, err)

	r = httptest.NewRequest(http.MethodGet, "/assets/a1b2/preview/IMG_1?hash="+record.Hash, nil)
	decision, err := gate.AuthorizeDerivative(context.Background(), r, photo)
	require.NoError(t, err)
	assert.Nil(t, decision.Admin)

	r = httptest.NewRequest(http.MethodGet, "/assets/a1b2/preview/IMG_1?hash=wrong", nil)
	_, err = gate.AuthorizeDerivative(context.Background(), r, photo)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

// Администратор на публичной фотографии получает актуальный публичный хэш
// и тем самым лениво чинит истёкший
func TestAuthorizeDerivativePublicAdminRefreshesHash(t *testing.T) {
	admin := &model.AdminPrincipal{ID: "admin-1", Role: security.RoleAdmin}
	gate, _, registry := newTestGate(admin)
	photo := photoWithVisibility(model.VisibilityPublic)

	r := httptest.NewRequest(http.MethodGet, "/assets/a1b2/preview/IMG_1", nil)
	decision, err := gate.AuthorizeDerivative(context.Background(), r, photo)
	require.NoError(t, err)
	require.NotNil(t, decision.PublicHash)

	active, err := registry.GetActive(context.Background(), photo.ID)
	require.NoError(t, err)
	assert.Equal(t, decision.PublicHash, active)
}
