// Package logger envuelve zerolog para que los casos de uso reciban el logger por inyección
// y cada línea salga con el mismo juego de campos (servicio, componente, proyecto).
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env     string    // development -> consola legible; cualquier otro valor -> JSON
	Level   string    // trace, debug, info, warn, error; vacío o desconocido -> info
	Service string    // se agrega como campo "service" cuando no está vacío
	Output  io.Writer // nil -> os.Stdout
}

// Logger wrapper sobre zerolog.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger de la aplicación y lo deja también como logger global de zerolog,
// para que las librerías que escriben en log.Logger salgan con el mismo formato.
func New(cfg Config) *Logger {
	l := build(cfg)
	log.Logger = l.zl
	return l
}

// build arma el logger sin tocar el global.
func build(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	return &Logger{zl: ctx.Logger()}
}

// Nop descarta todo.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// ParseLevel traduce el nivel configurado. Lo que zerolog no reconoce queda en info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Eventos por nivel. Fatal termina el proceso al emitir el mensaje.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Component sublogger con el campo "component" fijo; cada caso de uso crea el suyo al construirse.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

// Project sublogger con "project_id" fijo para las operaciones sobre un proyecto.
func (l *Logger) Project(id int64) *Logger {
	return &Logger{zl: l.zl.With().Int64("project_id", id).Logger()}
}
