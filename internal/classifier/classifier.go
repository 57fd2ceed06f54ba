package classifier

import (
	"strings"

	"teradrive/internal/domain"
)

// Classify определяет категорию записи по media type и имени файла.
// Правила применяются по порядку, первое совпадение выигрывает;
// неизвестный вход всегда даёт CategoryOther, ошибок не бывает.
func Classify(rawName, rawMediaType string) domain.Category {
	mediaType := strings.ToLower(strings.TrimSpace(rawMediaType))
	name := strings.ToLower(strings.TrimSpace(rawName))

	switch {
	// Папка создаётся тем же путём, что и файл; "folder" — метка из
	// формата документа, "application/x-directory" — её MIME-аналог
	case mediaType == "folder", mediaType == "application/x-directory":
		return domain.CategoryFolder
	case strings.HasPrefix(mediaType, "image/"):
		return domain.CategoryImage
	case strings.HasPrefix(mediaType, "video/"):
		return domain.CategoryVideo
	case strings.HasPrefix(mediaType, "audio/"):
		return domain.CategoryAudio
	}

	if strings.Contains(mediaType, "pdf") ||
		strings.Contains(mediaType, "document") ||
		strings.HasPrefix(mediaType, "text/") ||
		strings.HasSuffix(name, ".doc") ||
		strings.HasSuffix(name, ".docx") ||
		strings.HasSuffix(name, ".txt") {
		return domain.CategoryDocument
	}

	return domain.CategoryOther
}
