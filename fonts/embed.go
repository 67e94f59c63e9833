package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// BuiltinFamily 是内置 Go 字体族在 Library 中注册的名称。
const BuiltinFamily = "Go"

var builtin = map[string][]byte{
	"regular":     goregular.TTF,
	"bold":        gobold.TTF,
	"italic":      goitalic.TTF,
	"bold-italic": gobolditalic.TTF,
	"mono":        gomono.TTF,
}

// Load 返回内置字体的字节数据，path 可写为 "embed:bold" 或直接 "bold"。
func Load(path string) ([]byte, error) {
	name := strings.ToLower(strings.TrimPrefix(path, "embed:"))
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", path)
	}
	return data, nil
}

// AddBuiltin 注册内置 Go 字体族（四种字形）。
func (l *Library) AddBuiltin() (*Family, error) {
	return l.AddFamily(BuiltinFamily, goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF)
}
