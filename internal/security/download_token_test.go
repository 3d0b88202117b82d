package security_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-asset-server/internal/model"
	"photo-asset-server/internal/security"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestDownloadTokenRoundTrip(t *testing.T) {
	codec := security.NewDownloadTokenCodecWithClock("test-secret", fixedClock(1_000_000))

	payload := model.DownloadTokenPayload{
		Folder:   "a1b2",
		Type:     model.KindJPG,
		Filename: "IMG_0412.jpg",
		Exp:      1_120_000,
		Jti:      "deadbeefdeadbeef",
	}

	token, err := codec.Sign(payload)
	require.NoError(t, err)
	assert.Equal(t, 2, len(strings.Split(token, ".")))

	decoded, reason := codec.Verify(token)
	require.Empty(t, reason)
	assert.Equal(t, payload, *decoded)
}

func TestDownloadTokenMint(t *testing.T) {
	codec := security.NewDownloadTokenCodecWithClock("test-secret", fixedClock(1_000_000))

	token, err := codec.Mint("a1b2", model.KindRaw, "IMG_0412.raw", 120*time.Second)
	require.NoError(t, err)

	payload, reason := codec.Verify(token)
	require.Empty(t, reason)
	assert.Equal(t, "a1b2", payload.Folder)
	assert.Equal(t, model.KindRaw, payload.Type)
	assert.Equal(t, "IMG_0412.raw", payload.Filename)
	assert.Equal(t, int64(1_120_000), payload.Exp)
	assert.Len(t, payload.Jti, 16)
}

func TestDownloadTokenBadSignature(t *testing.T) {
	codec := security.NewDownloadTokenCodecWithClock("test-secret", fixedClock(1_000_000))

	token, err := codec.Mint("a1b2", model.KindJPG, "IMG_0412.jpg", time.Minute)
	require.NoError(t, err)

	// портим каждый байт сигнатуры по очереди
	dot := strings.Index(token, ".")
	for i := dot + 1; i < len(token); i++ {
		flipped := []byte(token)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}

		payload, reason := codec.Verify(string(flipped))
		assert.Nil(t, payload)
		// повреждение может сломать и сам base64 — тогда это invalid
		assert.Contains(t, []string{security.ReasonBadSignature, security.ReasonInvalid}, reason)
	}
}

func TestDownloadTokenWrongSecret(t *testing.T) {
	codec := security.NewDownloadTokenCodecWithClock("secret-one", fixedClock(1_000_000))
	other := security.NewDownloadTokenCodecWithClock("secret-two", fixedClock(1_000_000))

	token, err := codec.Mint("a1b2", model.KindJPG, "IMG_0412.jpg", time.Minute)
	require.NoError(t, err)

	payload, reason := other.Verify(token)
	assert.Nil(t, payload)
	assert.Equal(t, security.ReasonBadSignature, reason)
}

func TestDownloadTokenExpired(t *testing.T) {
	codec := security.NewDownloadTokenCodecWithClock("test-secret", fixedClock(1_000_000))

	token, err := codec.Sign(model.DownloadTokenPayload{
		Folder:   "a1b2",
		Type:     model.KindJPG,
		Filename: "IMG_0412.jpg",
		Exp:      999_999,
		Jti:      "deadbeefdeadbeef",
	})
	require.NoError(t, err)

	payload, reason := codec.Verify(token)
	assert.Nil(t, payload)
	assert.Equal(t, security.ReasonExpired, reason)
}

func TestDownloadTokenMissingExp(t *testing.T) {
	codec := security.NewDownloadTokenCodecWithClock("test-secret", fixedClock(1_000_000))

	// валидная подпись над payload без exp — это expired, не invalid
	token, err := codec.Sign(model.DownloadTokenPayload{
		Folder:   "a1b2",
		Type:     model.KindJPG,
		Filename: "IMG_0412.jpg",
		Jti:      "deadbeefdeadbeef",
	})
	require.NoError(t, err)

	payload, reason := codec.Verify(token)
	assert.Nil(t, payload)
	assert.Equal(t, security.ReasonExpired, reason)
}

func TestDownloadTokenInvalid(t *testing.T) {
	codec := security.NewDownloadTokenCodecWithClock("test-secret", fixedClock(1_000_000))

	cases := map[string]string{
		"пустой":          "",
		"без разделителя": "eyJmIjoiYSJ9",
		"два разделителя": "a.b.c",
		"не base64":       "@@@.###",
	}

	for name, token := range cases {
		payload, reason := codec.Verify(token)
		assert.Nil(t, payload, name)
		assert.Equal(t, security.ReasonInvalid, reason, name)
	}
}

func TestDownloadTokenVerifyNeverPanics(t *testing.T) {
	codec := security.NewDownloadTokenCodec("test-secret")

	assert.NotPanics(t, func() {
		codec.Verify("....")
		codec.Verify(".")
		codec.Verify("x.")
		codec.Verify(".y")
	})
}
