package sqlite

import (
	"log/slog"

	"github.com/bird-bench/mini-dev/pkg/adapter"
)

func init() {
	adapter.Register("sqlite", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
