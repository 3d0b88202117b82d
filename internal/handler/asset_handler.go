package handler

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"photo-asset-server/config"
	"photo-asset-server/internal/model"
	requestresponse "photo-asset-server/internal/model/requestresponse"
	"photo-asset-server/internal/ports"
	"photo-asset-server/internal/security"
	"photo-asset-server/internal/service"
	"photo-asset-server/internal/util"
)

const (
	thumbnailsDir = "thumbnails"
	previewsDir   = "previews"
)

type AssetHandler struct {
	projects ports.ProjectRepository
	photos   ports.PhotoRepository
	gate     *service.AccessGate
	resolver *service.AssetResolver
	codec    *security.DownloadTokenCodec
	archive  ports.ArchiveStorage
	basePath string
	signing  *config.SigningConfig
}

func NewAssetHandler(
	projects ports.ProjectRepository,
	photos ports.PhotoRepository,
	gate *service.AccessGate,
	resolver *service.AssetResolver,
	codec *security.DownloadTokenCodec,
	archive ports.ArchiveStorage,
	basePath string,
	signing *config.SigningConfig,
) *AssetHandler {
	return &AssetHandler{
		projects: projects,
		photos:   photos,
		gate:     gate,
		resolver: resolver,
		codec:    codec,
		archive:  archive,
		basePath: basePath,
		signing:  signing,
	}
}

// GetThumbnail godoc
// @Summary Миниатюра фотографии
// @Description Отдаёт thumbnail. Для private нужен админ, для public — админ либо валидный ?hash=.
// @Tags Assets
// @Produce image/jpeg
// @Param folder path string true "Папка проекта"
// @Param name path string true "Имя фотографии"
// @Param hash query string false "Публичный хэш"
// @Param v query string false "Версия для immutable-кэширования"
// @Success 200 {file} binary
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /assets/{folder}/thumbnail/{name} [get]
func (h *AssetHandler) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	h.serveDerivative(w, r, thumbnailsDir)
}

func (h *AssetHandler) GetThumbnailHead(w http.ResponseWriter, r *http.Request) {
	h.GetThumbnail(w, r)
}

// GetPreview godoc
// @Summary Превью фотографии
// @Tags Assets
// @Produce image/jpeg
// @Param folder path string true "Папка проекта"
// @Param name path string true "Имя фотографии"
// @Param hash query string false "Публичный хэш"
// @Success 200 {file} binary
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /assets/{folder}/preview/{name} [get]
func (h *AssetHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	h.serveDerivative(w, r, previewsDir)
}

func (h *AssetHandler) GetPreviewHead(w http.ResponseWriter, r *http.Request) {
	h.GetPreview(w, r)
}

// GetImage godoc
// @Summary Полноразмерное изображение
// @Description Отдаёт оригинальный JPEG под той же схемой доступа, что и превью.
// @Tags Assets
// @Produce image/jpeg
// @Param folder path string true "Папка проекта"
// @Param name path string true "Имя фотографии"
// @Param hash query string false "Публичный хэш"
// @Success 200 {file} binary
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /assets/{folder}/image/{name} [get]
func (h *AssetHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	project, photo, ok := h.lookup(w, r)
	if !ok {
		return
	}

	decision, err := h.gate.AuthorizeDerivative(r.Context(), r, photo)
	if err != nil {
		h.handleGateError(w, err)
		return
	}
	h.setPublicHashHeaders(w, decision)

	asset := h.resolver.ResolveAsset(h.projectPath(project.Folder), photo.Basename, model.KindJPG, photo.Ext)
	if asset == nil {
		util.HandleError(w, "файл не найден", http.StatusNotFound)
		return
	}

	h.serveFile(w, r, asset.Path, asset.ContentType, "")
}

func (h *AssetHandler) GetImageHead(w http.ResponseWriter, r *http.Request) {
	h.GetImage(w, r)
}

// GetOriginal godoc
// @Summary Скачивание оригинала по подписанному токену
// @Tags Downloads
// @Produce octet-stream
// @Param folder path string true "Папка проекта"
// @Param type path string true "Тип оригинала: jpg или raw"
// @Param name path string true "Имя файла в точности как в токене"
// @Param token query string true "Подписанный токен скачивания"
// @Success 200 {file} binary
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /assets/{folder}/file/{type}/{name} [get]
func (h *AssetHandler) GetOriginal(w http.ResponseWriter, r *http.Request) {
	folder := chi.URLParam(r, "folder")
	kind := chi.URLParam(r, "type")
	name := chi.URLParam(r, "name")

	if kind != model.KindJPG && kind != model.KindRaw {
		util.HandleError(w, "неподдерживаемый тип файла", http.StatusBadRequest)
		return
	}

	// токен проверяется строго до любых обращений к БД и диску
	if _, err := h.gate.CheckSignedRequest(r.URL.Query().Get("token"), folder, kind, name); err != nil {
		h.handleGateError(w, err)
		return
	}

	project, photo, ok := h.lookup(w, r)
	if !ok {
		return
	}

	base := h.resolver.BaseFromParam(name)
	asset := h.resolver.ResolveAsset(h.projectPath(project.Folder), base, kind, photo.Ext)
	if asset == nil {
		// оригинал мог уехать в холодный архив
		if h.archive != nil && photo.ArchiveKey.Valid && photo.ArchiveKey.String != "" {
			h.redirectToArchive(w, r, photo.ArchiveKey.String)
			return
		}
		util.HandleError(w, "файл не найден", http.StatusNotFound)
		return
	}

	h.serveFile(w, r, asset.Path, asset.ContentType, filepath.Base(asset.Path))
}

// GetOriginalsZip godoc
// @Summary Zip-архив всех оригиналов фотографии
// @Description Стримит zip с JPEG и RAW членами (JPEG первым). После первого байта ошибки рвут соединение.
// @Tags Downloads
// @Produce application/zip
// @Param folder path string true "Папка проекта"
// @Param name path string true "Имя фотографии"
// @Param token query string true "Подписанный токен типа zip"
// @Success 200 {file} binary
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /assets/{folder}/files-zip/{name} [get]
func (h *AssetHandler) GetOriginalsZip(w http.ResponseWriter, r *http.Request) {
	folder := chi.URLParam(r, "folder")
	name := chi.URLParam(r, "name")

	if _, err := h.gate.CheckSignedRequest(r.URL.Query().Get("token"), folder, model.KindZip, name); err != nil {
		h.handleGateError(w, err)
		return
	}

	project, photo, ok := h.lookup(w, r)
	if !ok {
		return
	}

	base := h.resolver.BaseFromParam(name)
	projectPath := h.projectPath(project.Folder)

	// детерминированный порядок членов архива: JPEG раньше RAW
	var members []string
	if path := h.resolver.Resolve(projectPath, base, model.KindJPG, photo.Ext); path != "" {
		members = append(members, path)
	}
	if path := h.resolver.Resolve(projectPath, base, model.KindRaw, photo.Ext); path != "" {
		members = append(members, path)
	}
	if len(members) == 0 {
		util.HandleError(w, "файлы не найдены", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", util.AttachmentDisposition(base+".zip"))
	w.Header().Set("Cache-Control", "no-store, must-revalidate")

	zipWriter := zip.NewWriter(w)
	for _, memberPath := range members {
		if err := streamZipMember(zipWriter, memberPath); err != nil {
			// заголовки уже ушли, JSON-ошибку слать поздно — рвём соединение
			log.Printf("[AssetHandler] ошибка стриминга zip %s: %v", memberPath, err)
			panic(http.ErrAbortHandler)
		}
	}
	if err := zipWriter.Close(); err != nil {
		log.Printf("[AssetHandler] ошибка закрытия zip: %v", err)
		panic(http.ErrAbortHandler)
	}
}

// CreateDownloadURL godoc
// @Summary Выпуск подписанной ссылки скачивания
// @Description Только для администратора. ttlMs ограничивается настроенным максимумом.
// @Tags Downloads
// @Accept json
// @Produce json
// @Param folder path string true "Папка проекта"
// @Param body body requestresponse.DownloadURLRequest true "Файл и тип"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.DownloadURLResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /assets/{folder}/download-url [post]
func (h *AssetHandler) CreateDownloadURL(w http.ResponseWriter, r *http.Request) {
	folder := chi.URLParam(r, "folder")

	var req requestresponse.DownloadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	if req.Type != model.KindJPG && req.Type != model.KindRaw && req.Type != model.KindZip {
		util.HandleError(w, "неподдерживаемый тип файла", http.StatusBadRequest)
		return
	}

	_, _, found, err := h.find(r.Context(), folder, req.Filename)
	if err != nil {
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}
	if !found {
		util.HandleError(w, "фотография не найдена", http.StatusNotFound)
		return
	}

	ttlMs := req.TTLMs
	if ttlMs <= 0 {
		ttlMs = h.signing.TokenTTLMs
	}
	if ttlMs > h.signing.MaxTokenTTLMs {
		ttlMs = h.signing.MaxTokenTTLMs
	}

	token, err := h.codec.Mint(folder, req.Type, req.Filename, time.Duration(ttlMs)*time.Millisecond)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	var downloadURL string
	if req.Type == model.KindZip {
		downloadURL = "/assets/" + url.PathEscape(folder) + "/files-zip/" + url.PathEscape(req.Filename)
	} else {
		downloadURL = "/assets/" + url.PathEscape(folder) + "/file/" + req.Type + "/" + url.PathEscape(req.Filename)
	}
	downloadURL += "?token=" + url.QueryEscape(token)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.DownloadURLResponse{URL: downloadURL})
}

// serveDerivative : общий путь thumbnail и preview
func (h *AssetHandler) serveDerivative(w http.ResponseWriter, r *http.Request, subdir string) {
	project, photo, ok := h.lookup(w, r)
	if !ok {
		return
	}

	decision, err := h.gate.AuthorizeDerivative(r.Context(), r, photo)
	if err != nil {
		h.handleGateError(w, err)
		return
	}
	h.setPublicHashHeaders(w, decision)

	path := filepath.Join(h.projectPath(project.Folder), subdir, photo.Basename+".jpg")
	h.serveFile(w, r, path, "image/jpeg", "")
}

// lookup : проект и фотография по параметрам маршрута; сам пишет 404
func (h *AssetHandler) lookup(w http.ResponseWriter, r *http.Request) (*model.Project, *model.Photo, bool) {
	folder := chi.URLParam(r, "folder")
	name := chi.URLParam(r, "name")

	project, photo, found, err := h.find(r.Context(), folder, name)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return nil, nil, false
	}
	if !found {
		util.HandleError(w, "фотография не найдена", http.StatusNotFound)
		return nil, nil, false
	}

	return project, photo, true
}

func (h *AssetHandler) find(ctx context.Context, folder, name string) (*model.Project, *model.Photo, bool, error) {
	project, err := h.projects.GetByFolder(ctx, folder)
	if err != nil {
		return nil, nil, false, util.LogError("[AssetHandler] ошибка поиска проекта", err)
	}
	if project == nil {
		return nil, nil, false, nil
	}

	photo, err := h.photos.GetByFilenameOrBasename(ctx, project.ID, name)
	if err != nil {
		return nil, nil, false, util.LogError("[AssetHandler] ошибка поиска фотографии", err)
	}
	if photo == nil {
		// имя могло прийти с расширением, пробуем basename
		base := h.resolver.BaseFromParam(name)
		if base != name {
			photo, err = h.photos.GetByFilenameOrBasename(ctx, project.ID, base)
			if err != nil {
				return nil, nil, false, util.LogError("[AssetHandler] ошибка поиска фотографии", err)
			}
		}
	}
	if photo == nil {
		return nil, nil, false, nil
	}

	return project, photo, true, nil
}

// serveFile : stat, условный 304, заголовки кэширования и стриминг.
// ETag пересчитывается на каждый запрос, чтобы отражать текущий файл.
// Ошибка чтения после ушедших заголовков рвёт соединение, повторная
// запись статуса невозможна.
func (h *AssetHandler) serveFile(w http.ResponseWriter, r *http.Request, path, contentType, downloadName string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		util.HandleError(w, "файл не найден", http.StatusNotFound)
		return
	}

	etag := util.ComputeETag(info)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", util.CacheControl(r))
	w.Header().Set("Content-Type", contentType)

	if util.NotModified(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if downloadName != "" {
		w.Header().Set("Content-Disposition", util.AttachmentDisposition(downloadName))
	}
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	file, err := os.Open(path)
	if err != nil {
		log.Printf("[AssetHandler] ошибка открытия файла %s: %v", path, err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		log.Printf("[AssetHandler] ошибка стриминга файла %s: %v", path, err)
		panic(http.ErrAbortHandler)
	}
}

func (h *AssetHandler) redirectToArchive(w http.ResponseWriter, r *http.Request, key string) {
	presignedURL, err := h.archive.GeneratePresignedGetURL(r.Context(), key, time.Duration(h.signing.TokenTTLMs)*time.Millisecond)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-store, must-revalidate")
	http.Redirect(w, r, presignedURL, http.StatusFound)
}

// setPublicHashHeaders : администратор, смотрящий публичную фотографию,
// получает актуальный публичный хэш, чтобы видеть ссылку, которой делится
func (h *AssetHandler) setPublicHashHeaders(w http.ResponseWriter, decision *service.DerivativeDecision) {
	if decision.Admin == nil || decision.PublicHash == nil {
		return
	}
	w.Header().Set("X-Public-Hash", decision.PublicHash.Hash)
	w.Header().Set("X-Public-Hash-Expires-At", strconv.FormatInt(decision.PublicHash.ExpiresAt, 10))
}

func (h *AssetHandler) handleGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		util.HandleError(w, "фотография не найдена", http.StatusNotFound)
	case errors.Is(err, service.ErrTokenMismatch):
		util.HandleError(w, service.ErrTokenMismatch.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrUnauthorized):
		util.HandleError(w, "unauthorized", http.StatusUnauthorized)
	default:
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}

func (h *AssetHandler) projectPath(folder string) string {
	return filepath.Join(h.basePath, folder)
}

func streamZipMember(zipWriter *zip.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	entry, err := zipWriter.Create(filepath.Base(path))
	if err != nil {
		return err
	}

	_, err = io.Copy(entry, file)
	return err
}
