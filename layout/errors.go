package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfSpace 表示内容无法放入区域；对全新页面仍放不下的不可拆分元素是致命错误。
	ErrOutOfSpace = errors.New("layout: out of space")
	// ErrHyphenationUnavailable 表示请求了断字但未配置断字器，排版降级为不拆词。
	ErrHyphenationUnavailable = errors.New("layout: hyphenation unavailable")
	// ErrFeatureDisabled 表示元素需要的可选能力（例如图片解码）未配置。
	ErrFeatureDisabled = errors.New("layout: feature disabled")
	// ErrInvalidElement 表示元素参数不合法。
	ErrInvalidElement = errors.New("layout: invalid element")
	// ErrTooManyPages 表示超过 Options.MaxPages。
	ErrTooManyPages = errors.New("layout: too many pages")
)

// ConstructionError 在构建元素时返回，渲染开始前即可发现。
type ConstructionError struct {
	Element string
	Reason  string
	Err     error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("构建 %s 失败: %s: %v", e.Element, e.Reason, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func constructionError(element string, err error, format string, args ...any) error {
	return &ConstructionError{Element: element, Reason: fmt.Sprintf(format, args...), Err: err}
}

// LayoutError 描述渲染过程中的致命排版错误。
type LayoutError struct {
	Page      int // 从 0 开始
	Element   string
	Needed    float64 // mm
	Available float64 // mm
	Err       error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("第 %d 页排版 %s 失败（需要 %.2fmm，可用 %.2fmm）: %v",
		e.Page+1, e.Element, e.Needed, e.Available, e.Err)
}

func (e *LayoutError) Unwrap() error { return e.Err }

// BackendError 包装输出后端（PDF 写出等）的错误，原样向调用方传播。
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("后端 %s 失败: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
