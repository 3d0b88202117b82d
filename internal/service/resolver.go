package service

import (
	"os"
	"path/filepath"
	"strings"

	"photo-asset-server/internal/model"
)

// Семейства расширений в каноническом порядке предпочтения
var (
	jpgFamily = []string{".jpg", ".jpeg"}
	rawFamily = []string{".cr2", ".nef", ".arw", ".dng", ".raw"}

	// закрытый набор известных фото-расширений; любой другой суффикс
	// считается частью имени (точки в описательных именах — не расширения)
	knownExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".raw": true,
		".arw": true, ".cr2": true, ".nef": true, ".dng": true,
	}
)

// AssetResolver : отображает логическую тройку (проект, basename, тип)
// в физический путь на диске
type AssetResolver struct{}

func NewAssetResolver() *AssetResolver {
	return &AssetResolver{}
}

// BaseFromParam : срезает расширение только если оно из известного набора
func (res *AssetResolver) BaseFromParam(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if knownExtensions[ext] {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

// Resolve : двухъярусный поиск файла. Сначала точные stat-проверки по
// кандидатам (каноническая раскладка — O(1) обращений к ФС), затем один
// case-insensitive проход по каталогу для файловых систем с другим
// регистром. Пустая строка означает "не найдено", это не ошибка.
func (res *AssetResolver) Resolve(projectPath, base, preferredKind, hintExt string) string {
	family := res.family(preferredKind)
	if family == nil {
		return ""
	}

	candidates := res.candidates(family, hintExt)
	for _, ext := range candidates {
		path := filepath.Join(projectPath, base+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	entries, err := os.ReadDir(projectPath)
	if err != nil {
		return ""
	}

	allowed := make(map[string]bool, len(family))
	for _, ext := range family {
		allowed[ext] = true
	}
	lowerBase := strings.ToLower(base)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !allowed[ext] {
			continue
		}
		if strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name))) == lowerBase {
			return filepath.Join(projectPath, name)
		}
	}

	return ""
}

// GuessContentType : JPEG отдаём как image/jpeg, все RAW-форматы — как
// generic binary: браузер их всё равно не отрисует, скачивание и есть цель
func (res *AssetResolver) GuessContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// ResolveAsset : Resolve + content-type одним вызовом
func (res *AssetResolver) ResolveAsset(projectPath, base, preferredKind, hintExt string) *model.ResolvedAsset {
	path := res.Resolve(projectPath, base, preferredKind, hintExt)
	if path == "" {
		return nil
	}
	return &model.ResolvedAsset{
		Path:        path,
		ContentType: res.GuessContentType(path),
	}
}

func (res *AssetResolver) family(kind string) []string {
	switch kind {
	case model.KindJPG:
		return jpgFamily
	case model.KindRaw:
		return rawFamily
	default:
		return nil
	}
}

// candidates : hint из записи о фотографии пробуется первым, если он
// принадлежит семейству запрошенного типа
func (res *AssetResolver) candidates(family []string, hintExt string) []string {
	hint := strings.ToLower(hintExt)
	if hint != "" && !strings.HasPrefix(hint, ".") {
		hint = "." + hint
	}

	hintInFamily := false
	for _, ext := range family {
		if ext == hint {
			hintInFamily = true
			break
		}
	}
	if !hintInFamily {
		return family
	}

	ordered := make([]string, 0, len(family))
	ordered = append(ordered, hint)
	for _, ext := range family {
		if ext != hint {
			ordered = append(ordered, ext)
		}
	}
	return ordered
}
