package mysql

import (
	"log/slog"

	"github.com/bird-bench/mini-dev/pkg/adapter"
)

func init() {
	adapter.Register("mysql", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
