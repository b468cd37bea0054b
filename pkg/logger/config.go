package logger

import "log/slog"

type Backend string

const (
	BackendStd Backend = "std" // текст в dev, JSON в stage/prod
	BackendZap Backend = "zap" // slog поверх zap
)

type Config struct {
	// Метаданные сервиса
	Service    string
	Version    string
	InstanceID string

	// Управление выводом
	Level   slog.Level
	Env     Env
	Backend Backend
	Debug   bool

	// Сэмплирование для zap
	SampleInitial    int
	SampleThereafter int

	AddSource bool
}
