package layout

import (
	"io"
	"log/slog"

	"github.com/ByLCY/folio/fonts"
)

// Options 配置一次渲染所需的依赖。可选能力在 NewEngine 时一次性确定。
type Options struct {
	// Fonts 用于测量；为空时使用内置 Go 字体。后端必须与引擎共用同一个 Library。
	Fonts *fonts.Library
	// Hyphenator 为空且 Hyphenate 为真时，断字降级为关闭并记录 ErrHyphenationUnavailable。
	Hyphenator Hyphenator
	Hyphenate  bool
	Locale     string
	Logger     *slog.Logger
	// MaxPages 大于 0 时限制页数，超出返回 ErrTooManyPages。
	MaxPages int
	// Pages 为空时每页使用文档的纸张尺寸与边距。
	Pages PageProvider
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
