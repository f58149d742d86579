package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

// Init configura el logger global. En desarrollo la salida es consola legible;
// en cualquier otro entorno, JSON estructurado a stdout.
func Init(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "development" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		log = zerolog.New(output).With().Timestamp().Caller().Logger()
		return
	}
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Info evento de nivel info.
func Info() *zerolog.Event {
	return log.Info()
}

// Warn evento de nivel warn.
func Warn() *zerolog.Event {
	return log.Warn()
}

// Error evento de nivel error.
func Error() *zerolog.Event {
	return log.Error()
}

// Debug evento de nivel debug.
func Debug() *zerolog.Event {
	return log.Debug()
}

// Fatal evento de nivel fatal. Termina el proceso.
func Fatal() *zerolog.Event {
	return log.Fatal()
}
