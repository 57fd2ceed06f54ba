package domain

// Storage хранит квоту аккаунта в байтах.
type Storage struct {
	UsedBytes  int64 `json:"used"`
	TotalBytes int64 `json:"total"`
}

// User представляет аккаунт владельца хранилища.
// JSON-теги повторяют формат документа "user" в хранилище.
type User struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Storage Storage `json:"storage"`
}

// CategoryUsage — занятое место по одной категории записей.
type CategoryUsage struct {
	Category  Category `json:"category"`
	UsedBytes int64    `json:"used_bytes"`
}

// QuotaInfo — снимок квоты для отображения.
type QuotaInfo struct {
	TotalSpace     int64           `json:"total_space"`
	UsedSpace      int64           `json:"used_space"`
	AvailableSpace int64           `json:"available_space"`
	UsagePercent   float64         `json:"usage_percent"`
	Breakdown      []CategoryUsage `json:"breakdown"`
}
