package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"photo-asset-server/internal/model"
	"photo-asset-server/internal/util"
)

// Причины отказа верификации. Уходят в лог и телеметрию, клиент всегда
// получает общий 401 без деталей.
const (
	ReasonInvalid      = "invalid"
	ReasonBadSignature = "bad_signature"
	ReasonExpired      = "expired"
)

// DownloadTokenCodec : подписывает и проверяет токены скачивания.
// Формат: base64url(JSON) + "." + base64url(HMAC-SHA256 от закодированной части).
type DownloadTokenCodec struct {
	secret []byte
	now    func() time.Time
}

func NewDownloadTokenCodec(secret string) *DownloadTokenCodec {
	return NewDownloadTokenCodecWithClock(secret, time.Now)
}

func NewDownloadTokenCodecWithClock(secret string, now func() time.Time) *DownloadTokenCodec {
	return &DownloadTokenCodec{secret: []byte(secret), now: now}
}

// Mint : выпускает токен, привязанный к точной тройке (папка, тип, имя).
// jti — 8 случайных байт в hex, нигде не хранится, нужен только чтобы
// два токена на один и тот же файл не совпадали байт в байт.
func (c *DownloadTokenCodec) Mint(folder, kind, filename string, ttl time.Duration) (string, error) {
	jti, err := util.GenerateRandomToken(16)
	if err != nil {
		return "", util.LogError("[DownloadTokenCodec] ошибка генерации jti", err)
	}

	payload := model.DownloadTokenPayload{
		Folder:   folder,
		Type:     kind,
		Filename: filename,
		Exp:      c.now().UnixMilli() + ttl.Milliseconds(),
		Jti:      jti,
	}
	return c.Sign(payload)
}

// Sign : сериализует payload и подписывает закодированную форму
func (c *DownloadTokenCodec) Sign(payload model.DownloadTokenPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", util.LogError("[DownloadTokenCodec] ошибка сериализации payload", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + base64.RawURLEncoding.EncodeToString(c.sum(encoded)), nil
}

// Verify : проверяет токен, не бросая паник. Возвращает payload либо
// причину отказа: invalid / bad_signature / expired. Подпись сверяется в
// постоянном времени до разбора payload.
func (c *DownloadTokenCodec) Verify(token string) (*model.DownloadTokenPayload, string) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, ReasonInvalid
	}

	signature, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ReasonInvalid
	}
	if !hmac.Equal(signature, c.sum(parts[0])) {
		return nil, ReasonBadSignature
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ReasonInvalid
	}

	// exp разбирается отдельно: отсутствующий или нечисловой exp — это
	// expired, а не invalid, потому что подпись уже сошлась
	var decoded struct {
		Folder   string      `json:"f"`
		Type     string      `json:"t"`
		Filename string      `json:"n"`
		Exp      interface{} `json:"exp"`
		Jti      string      `json:"jti"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, ReasonInvalid
	}

	expMs, ok := decoded.Exp.(float64)
	if !ok || int64(expMs) < c.now().UnixMilli() {
		return nil, ReasonExpired
	}

	return &model.DownloadTokenPayload{
		Folder:   decoded.Folder,
		Type:     decoded.Type,
		Filename: decoded.Filename,
		Exp:      int64(expMs),
		Jti:      decoded.Jti,
	}, ""
}

func (c *DownloadTokenCodec) sum(encodedPayload string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encodedPayload))
	return mac.Sum(nil)
}
