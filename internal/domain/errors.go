package domain

import "errors"

// Классификация ошибок хранилища. Сервисы оборачивают их через
// fmt.Errorf("...: %w", ...), хендлеры сопоставляют с HTTP-статусами
// через errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("record not found")
	ErrPrecondition = errors.New("precondition failed")
	ErrPersistence  = errors.New("persistence failed")
)
