package model

// Типы запрашиваемых оригиналов
const (
	KindJPG = "jpg"
	KindRaw = "raw"
	KindZip = "zip"
)

// DownloadTokenPayload : полезная нагрузка подписанного токена скачивания.
// Токен привязан к точной тройке (папка, тип, имя файла); сервер не хранит
// список отозванных токенов — безопасность держится на коротком exp.
type DownloadTokenPayload struct {
	Folder   string `json:"f"`
	Type     string `json:"t"`
	Filename string `json:"n"`
	Exp      int64  `json:"exp"`
	Jti      string `json:"jti"`
}

// PublicHashRecord : активный публичный хэш фотографии.
// Владеет записью только реестр: ротация происходит исключительно через
// EnsureHash, валидация состояние не меняет.
type PublicHashRecord struct {
	Hash      string `json:"hash"`
	ExpiresAt int64  `json:"expires_at"`
}

// Active : true, пока expires_at в будущем
func (r *PublicHashRecord) Active(nowMs int64) bool {
	return r != nil && r.ExpiresAt > nowMs
}

// AdminPrincipal : администратор, определённый из bearer заголовка или cookie.
// Живёт один запрос, собственного жизненного цикла не имеет.
type AdminPrincipal struct {
	ID      string
	Role    string
	TokenID string
}

// ResolvedAsset : абсолютный путь и content-type найденного файла,
// создаётся на время одного запроса
type ResolvedAsset struct {
	Path        string
	ContentType string
}
