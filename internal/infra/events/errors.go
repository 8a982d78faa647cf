package events

import "errors"

var (
	// ErrPublish возвращается при ошибке отправки события в брокер
	ErrPublish = errors.New("events.publisher: failed to publish event")

	// ErrMarshalEvent возвращается при ошибке сериализации события
	ErrMarshalEvent = errors.New("events.publisher: failed to marshal event")
)
