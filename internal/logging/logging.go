package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"reservation-coordinator/internal/config"
)

var (
	sinkMu sync.RWMutex
	sink   io.Writer = os.Stdout
)

// Init installs the global zerolog logger. When cfg.File is set, output is
// tee'd to stdout and a size-limited file.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		if fw, err := openCappedFile(cfg.File, cfg.MaxMB); err == nil {
			out = io.MultiWriter(os.Stdout, fw)
		} else {
			log.Warn().Err(err).Str("file", cfg.File).Msg("log file disabled")
		}
	}
	setWriter(out)

	var output = out
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(level)
	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	logger := ctx.Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
}

// Writer is the raw sink, used by the HTTP request logger.
func Writer() io.Writer {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return sink
}

func setWriter(w io.Writer) {
	sinkMu.Lock()
	sink = w
	sinkMu.Unlock()
}
