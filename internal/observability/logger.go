package observability

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func InitLogger(app string, out io.Writer, timestamp bool) zerolog.Logger {
	ctx := zerolog.New(out).With()
	if timestamp {
		ctx = ctx.Timestamp()
	}
	logger := ctx.Str("app", app).Logger()
	log.Logger = logger
	return logger
}
