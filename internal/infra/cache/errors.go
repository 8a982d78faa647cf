package cache

import "errors"

var (
	// ErrCacheGet возвращается при ошибке чтения из кэша
	ErrCacheGet = errors.New("cache.slots: failed to get cached slots")

	// ErrCacheSet возвращается при ошибке записи в кэш
	ErrCacheSet = errors.New("cache.slots: failed to store slots")

	// ErrCacheInvalidate возвращается при ошибке инвалидации
	ErrCacheInvalidate = errors.New("cache.slots: failed to invalidate")
)
