package requestresponse

// DownloadURLRequest : запрос на выпуск подписанной ссылки скачивания
type DownloadURLRequest struct {
	Filename string `json:"filename" example:"IMG_0412.jpg"`
	Type     string `json:"type" example:"jpg"`
	TTLMs    int64  `json:"ttlMs,omitempty" example:"120000"`
}

// DownloadURLResponse : подписанная ссылка
type DownloadURLResponse struct {
	URL string `json:"url" example:"/assets/a1b2/file/jpg/IMG_0412.jpg?token=..."`
}

// ErrorResponse : тело ошибки для JSON-ответов
type ErrorResponse struct {
	Error   string `json:"error" example:"Not Found"`
	Message string `json:"message" example:"фотография не найдена"`
	Code    int    `json:"code" example:"404"`
}
