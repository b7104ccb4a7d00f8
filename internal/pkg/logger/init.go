package logger

import (
	"io"
	log "log/slog"
	"os"
)

var LogWriter io.Writer

// InitLogger 初始化全局 slog：JSON 输出到 stdout，经 ContextHandler 注入 trace_id。
// 单用户部署没有远端日志收集，本地 stdout 即可
func InitLogger() {
	LogWriter = os.Stdout

	handler := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: log.LevelInfo})
	log.SetDefault(log.New(&ContextHandler{handler}))
}
