package dsl

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
	"github.com/ByLCY/folio/style"
	"github.com/ByLCY/folio/units"
)

const defaultMargin = 20.0

// BuildOptions 配置 Build。
type BuildOptions struct {
	// Library 为空时使用内置 Go 字体；resources 中声明的字体会注册到其中。
	Library *fonts.Library
	// Decoder 为空时 image 命令构建失败（layout.ErrFeatureDisabled）。
	Decoder layout.ImageDecoder
	// BaseDir 用于解析相对路径的字体与图片。
	BaseDir string
	// Strict 为真时，数据绑定中不存在的路径视为错误。
	Strict bool
}

// Result 是构建好的文档以及渲染时需要的设置。
type Result struct {
	Document *layout.Document
	Fonts    *fonts.Library
	Locale   string
}

type imageResource struct {
	src   string
	attrs map[string]string
}

type styleResource struct {
	name    string
	extends string
	props   map[string]string
}

type builder struct {
	opts   BuildOptions
	lib    *fonts.Library
	colors map[string]style.Color
	styles map[string]map[string]string
	images map[string]imageResource
	// 正文宽度，百分比长度以此为参照
	width float64
}

// Build 根据 DSL AST 与绑定数据生成 layout.Document。
func Build(doc *Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	b := &builder{
		opts:   opts,
		lib:    opts.Library,
		colors: map[string]style.Color{},
		styles: map[string]map[string]string{},
		images: map[string]imageResource{},
	}
	if b.lib == nil {
		lib, err := fonts.NewDefaultLibrary()
		if err != nil {
			return nil, fmt.Errorf("加载内置字体失败: %w", err)
		}
		b.lib = lib
	}
	if err := b.collectResources(doc); err != nil {
		return nil, err
	}
	meta, locale, err := b.collectMeta(doc, data)
	if err != nil {
		return nil, err
	}
	page := firstPage(doc)
	if page == nil {
		return nil, fmt.Errorf("文档中缺少 page 段落")
	}
	out, err := b.buildPage(page, data)
	if err != nil {
		return nil, err
	}
	out.Meta = meta
	return &Result{Document: out, Fonts: b.lib, Locale: locale}, nil
}

// BuildString 解析并构建 DSL 文本。
func BuildString(input string, data any, opts BuildOptions) (*Result, error) {
	doc, err := ParseString(input)
	if err != nil {
		return nil, fmt.Errorf("解析 DSL 失败: %w", err)
	}
	return Build(doc, data, opts)
}

func (b *builder) collectResources(doc *Document) error {
	raw := map[string]styleResource{}
	fallbacks := map[string][]string{}
	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			cmd := stmt.Command
			if cmd == nil || len(cmd.Args) == 0 {
				continue
			}
			name := cmd.Args[0].Value
			switch cmd.Name {
			case "font":
				fb, err := b.loadFont(name, cmd.Block)
				if err != nil {
					return err
				}
				if len(fb) > 0 {
					fallbacks[name] = fb
				}
			case "color":
				c, err := style.ParseColor(cmd.Args[len(cmd.Args)-1].Value)
				if err != nil {
					return fmt.Errorf("颜色 %s: %w", name, err)
				}
				b.colors[name] = c
			case "style":
				s := styleResource{name: name, props: blockProps(cmd.Block)}
				if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
					s.extends = cmd.Args[2].Value
				}
				raw[name] = s
			case "image":
				props := blockProps(cmd.Block)
				img := imageResource{src: props["src"], attrs: props}
				if img.src == "" {
					return fmt.Errorf("图片资源 %s 缺少 src", name)
				}
				b.images[name] = img
			default:
				return fmt.Errorf("未知资源类型 %s（第 %d 行）", cmd.Name, cmd.Pos.Line)
			}
		}
	}
	for family, fb := range fallbacks {
		if err := b.lib.SetFallback(family, fb...); err != nil {
			return fmt.Errorf("字体 %s 的回退设置: %w", family, err)
		}
	}
	styles, err := resolveStyles(raw)
	if err != nil {
		return err
	}
	b.styles = styles
	return nil
}

// loadFont 注册 font 资源，返回其声明的回退字体族。
func (b *builder) loadFont(name string, block *Block) ([]string, error) {
	props := blockProps(block)
	if props["regular"] == "" {
		props["regular"] = props["src"]
	}
	if props["regular"] == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", name)
	}
	var members [4][]byte
	for i, key := range []string{"regular", "bold", "italic", "bold-italic"} {
		src := props[key]
		if src == "" {
			continue
		}
		data, err := b.readFont(src)
		if err != nil {
			return nil, fmt.Errorf("字体 %s: %w", name, err)
		}
		members[i] = data
	}
	if _, err := b.lib.AddFamily(name, members[0], members[1], members[2], members[3]); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	if v, ok := props["default"]; ok && isTrue(v) {
		if err := b.lib.SetDefault(name); err != nil {
			return nil, err
		}
	}
	var fb []string
	for _, f := range strings.Split(props["fallback"], ",") {
		if f = strings.TrimSpace(f); f != "" {
			fb = append(fb, f)
		}
	}
	return fb, nil
}

func (b *builder) readFont(src string) ([]byte, error) {
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	return b.readAsset(src)
}

func (b *builder) readAsset(src string) ([]byte, error) {
	path := src
	if !filepath.IsAbs(path) {
		if b.opts.BaseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用相对路径：%s", src)
		}
		path = filepath.Join(b.opts.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", src, err)
	}
	return data, nil
}

func resolveStyles(styles map[string]styleResource) (map[string]map[string]string, error) {
	resolved := map[string]map[string]string{}
	visiting := map[string]bool{}

	var dfs func(name string) (map[string]string, error)
	dfs = func(name string) (map[string]string, error) {
		if props, ok := resolved[name]; ok {
			return props, nil
		}
		s, ok := styles[name]
		if !ok {
			return nil, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return nil, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if s.extends != "" {
			parent, err := dfs(s.extends)
			if err != nil {
				return nil, err
			}
			for k, v := range parent {
				props[k] = v
			}
		}
		for k, v := range s.props {
			props[k] = v
		}
		resolved[name] = props
		delete(visiting, name)
		return props, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func (b *builder) collectMeta(doc *Document, data any) (renderer.Meta, string, error) {
	meta := renderer.Meta{Creator: "folio"}
	var locale string
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			val, err := b.expand(valueToString(stmt.Assignment.Value), data)
			if err != nil {
				return meta, "", err
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = val
			case "author":
				meta.Author = val
			case "subject":
				meta.Subject = val
			case "creator":
				meta.Creator = val
			case "keywords":
				meta.Keywords = valueToStringSlice(stmt.Assignment.Value)
			case "lang", "locale":
				locale = val
			}
		}
	}
	return meta, locale, nil
}

func firstPage(doc *Document) *PageSection {
	for _, section := range doc.Sections {
		if section.Page != nil {
			return section.Page
		}
	}
	return nil
}

func (b *builder) buildPage(page *PageSection, data any) (*layout.Document, error) {
	size, err := resolvePageSize(page.Spec)
	if err != nil {
		return nil, err
	}
	doc := layout.NewDocument(size)
	doc.Margins = resolveMargin(page.Spec.Params)
	b.width = size.Width - doc.Margins.Left - doc.Margins.Right
	if page.Block == nil {
		return doc, nil
	}

	docAttrs := map[string]string{}
	for _, stmt := range page.Block.Statements {
		switch {
		case stmt.Assignment != nil:
			docAttrs[stmt.Assignment.Key] = valueToString(stmt.Assignment.Value)
		case stmt.Command != nil && stmt.Command.Name == "header":
			if err := b.buildHeader(doc, stmt.Command, data); err != nil {
				return nil, err
			}
		default:
			el, err := b.buildStatement(stmt, data)
			if err != nil {
				return nil, err
			}
			doc.Push(el)
		}
	}
	if doc.Style, err = b.styleFrom(docAttrs); err != nil {
		return nil, fmt.Errorf("页面样式: %w", err)
	}
	if v, ok := docAttrs["spacing"]; ok {
		doc.SetSpacing(b.length(v))
	}
	return doc, nil
}

// buildHeader 构建页眉。页眉内容可以引用 ${page}；构建时先以第 1 页校验一次。
func (b *builder) buildHeader(doc *layout.Document, cmd *Command, data any) error {
	if _, err := b.buildContainer(cmd, withValue(data, "page", 1)); err != nil {
		return fmt.Errorf("页眉: %w", err)
	}
	doc.Header = func(page int) layout.Element {
		el, err := b.buildContainer(cmd, withValue(data, "page", page))
		if err != nil {
			return nil
		}
		return el
	}
	return nil
}

func (b *builder) buildStatement(stmt *Statement, data any) (layout.Element, error) {
	switch {
	case stmt.Text != nil:
		content, err := b.expand(string(stmt.Text.Value), data)
		if err != nil {
			return nil, err
		}
		return layout.NewText(content, style.Style{}), nil
	case stmt.Command != nil:
		return b.buildElement(stmt.Command, data)
	default:
		return nil, fmt.Errorf("此处不允许赋值语句 %s", stmt.Assignment.Key)
	}
}

func (b *builder) buildElement(cmd *Command, data any) (layout.Element, error) {
	switch cmd.Name {
	case "text":
		return b.buildText(cmd, data)
	case "paragraph":
		return b.buildParagraph(cmd, data)
	case "table":
		return b.buildTable(cmd, data)
	case "image":
		return b.buildImage(cmd)
	case "pagebreak":
		return layout.NewPageBreak(), nil
	case "stack":
		return b.buildContainer(cmd, data)
	case "columns":
		return b.buildColumns(cmd, data)
	default:
		return nil, fmt.Errorf("未知命令 %s（第 %d 行）", cmd.Name, cmd.Pos.Line)
	}
}

func (b *builder) buildText(cmd *Command, data any) (layout.Element, error) {
	st, err := b.commandStyle(cmd)
	if err != nil {
		return nil, err
	}
	content, err := b.expand(extractText(cmd.Block), data)
	if err != nil {
		return nil, err
	}
	t := layout.NewText(content, st)
	if _, inline := b.parseArgs(cmd.Args, true); inline["link"] != "" {
		if t.Link, err = b.expand(inline["link"], data); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (b *builder) buildParagraph(cmd *Command, data any) (layout.Element, error) {
	st, err := b.commandStyle(cmd)
	if err != nil {
		return nil, err
	}
	p := layout.NewParagraph(st)
	if cmd.Block == nil {
		return p, nil
	}
	for _, stmt := range cmd.Block.Statements {
		switch {
		case stmt.Text != nil:
			content, err := b.expand(string(stmt.Text.Value), data)
			if err != nil {
				return nil, err
			}
			p.Push(content, style.Style{})
		case stmt.Command != nil && stmt.Command.Name == "span":
			run, err := b.buildText(stmt.Command, data)
			if err != nil {
				return nil, err
			}
			p.Runs = append(p.Runs, run.(*layout.Text))
		default:
			return nil, fmt.Errorf("paragraph 中只允许文本与 span（第 %d 行）", cmd.Pos.Line)
		}
	}
	return p, nil
}

// buildContainer 把块内的元素放进纵向布局；只有一个子元素且没有样式时直接返回它。
func (b *builder) buildContainer(cmd *Command, data any) (layout.Element, error) {
	_, attrs := b.parseArgs(cmd.Args, true)
	st, err := b.commandStyle(cmd)
	if err != nil {
		return nil, err
	}
	children, err := b.buildChildren(cmd.Block, data)
	if err != nil {
		return nil, err
	}
	if len(children) == 1 && st.IsZero() && attrs["spacing"] == "" {
		return children[0], nil
	}
	l := layout.NewVerticalLayout(children...)
	l.Style = st
	if v, ok := attrs["spacing"]; ok {
		l.Spacing = b.length(v)
	}
	return l, nil
}

func (b *builder) buildChildren(block *Block, data any) ([]layout.Element, error) {
	if block == nil {
		return nil, nil
	}
	var out []layout.Element
	for _, stmt := range block.Statements {
		el, err := b.buildStatement(stmt, data)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func (b *builder) buildColumns(cmd *Command, data any) (layout.Element, error) {
	weights, rest := leadingNumbers(cmd.Args)
	children, err := b.buildChildren(cmd.Block, data)
	if err != nil {
		return nil, err
	}
	l, err := layout.NewHorizontalLayout(weights, children...)
	if err != nil {
		return nil, err
	}
	if l.Style, err = b.styleFrom(b.attrs(rest, true)); err != nil {
		return nil, err
	}
	return l, nil
}

func (b *builder) buildTable(cmd *Command, data any) (layout.Element, error) {
	weights, rest := leadingNumbers(cmd.Args)
	attrs := b.attrs(rest, true)
	tbl, err := layout.NewTable(weights...)
	if err != nil {
		return nil, err
	}
	if tbl.Style, err = b.styleFrom(attrs); err != nil {
		return nil, err
	}
	if v, ok := attrs["padding"]; ok {
		tbl.Padding = b.length(v)
	}
	if v, ok := attrs["border"]; ok {
		ls := style.DefaultLineStyle()
		ls.Thickness = b.length(v)
		if c, ok := attrs["border-color"]; ok {
			if ls.Color, err = b.color(c); err != nil {
				return nil, err
			}
		}
		tbl.Border = &ls
	}
	if v, ok := attrs["fill"]; ok {
		c, err := b.color(v)
		if err != nil {
			return nil, err
		}
		tbl.HeaderFill = &c
	}
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			if err := b.addRows(tbl, stmt, data); err != nil {
				return nil, err
			}
		}
	}
	if v, ok := attrs["header"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("table header 需要整数: %q", v)
		}
		if err := tbl.SetHeaderRows(n); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// addRows 处理 row 与 rows 语句。rows "path" as name 对数组中的每一项生成一行。
func (b *builder) addRows(tbl *layout.Table, stmt *Statement, data any) error {
	cmd := stmt.Command
	if cmd == nil {
		return fmt.Errorf("table 中只允许 row 与 rows")
	}
	switch cmd.Name {
	case "row":
		cells, err := b.buildCells(cmd.Block, data)
		if err != nil {
			return err
		}
		return tbl.AddRow(cells...)
	case "rows":
		if len(cmd.Args) != 3 || cmd.Args[1].Value != "as" {
			return fmt.Errorf("rows 语法为 rows \"path\" as name（第 %d 行）", cmd.Pos.Line)
		}
		val, ok := binding.Lookup(data, cmd.Args[0].Value)
		if !ok {
			if b.opts.Strict {
				return fmt.Errorf("%w: %s", binding.ErrMissing, cmd.Args[0].Value)
			}
			return nil
		}
		items, ok := val.([]any)
		if !ok {
			return fmt.Errorf("rows 需要数组: %s", cmd.Args[0].Value)
		}
		for _, item := range items {
			cells, err := b.buildCells(cmd.Block, withValue(data, cmd.Args[2].Value, item))
			if err != nil {
				return err
			}
			if err := tbl.AddRow(cells...); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("table 中不允许 %s（第 %d 行）", cmd.Name, cmd.Pos.Line)
	}
}

func (b *builder) buildCells(block *Block, data any) ([]layout.Element, error) {
	if block == nil {
		return nil, nil
	}
	var cells []layout.Element
	for _, stmt := range block.Statements {
		switch {
		case stmt.Text != nil:
			el, err := b.buildStatement(stmt, data)
			if err != nil {
				return nil, err
			}
			cells = append(cells, el)
		case stmt.Command != nil && stmt.Command.Name == "cell":
			el, err := b.buildContainer(stmt.Command, data)
			if err != nil {
				return nil, err
			}
			cells = append(cells, el)
		default:
			return nil, fmt.Errorf("row 中只允许文本与 cell")
		}
	}
	return cells, nil
}

func (b *builder) buildImage(cmd *Command) (layout.Element, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("image 缺少来源（第 %d 行）", cmd.Pos.Line)
	}
	if b.opts.Decoder == nil {
		return nil, &layout.ConstructionError{Element: "image", Reason: "未配置图片解码器", Err: layout.ErrFeatureDisabled}
	}
	src := cmd.Args[0]
	attrs := map[string]string{}
	path := src.Value
	if src.Type == "Ident" {
		res, ok := b.images[src.Value]
		if !ok {
			return nil, fmt.Errorf("找不到图片资源 %s", src.Value)
		}
		path = res.src
		for k, v := range res.attrs {
			attrs[k] = v
		}
	}
	for k, v := range b.attrs(cmd.Args[1:], false) {
		attrs[k] = v
	}
	raw, err := b.readAsset(path)
	if err != nil {
		return nil, err
	}
	img, err := layout.NewImage(raw, b.opts.Decoder)
	if err != nil {
		return nil, err
	}
	if v, ok := attrs["width"]; ok {
		img.Width = b.length(v)
	}
	if v, ok := attrs["dpi"]; ok {
		if img.DPI, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("image dpi: %w", err)
		}
	}
	if v, ok := attrs["align"]; ok {
		if img.Align, err = style.ParseAlignment(v); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// commandStyle 合并命名样式与行内属性。
func (b *builder) commandStyle(cmd *Command) (style.Style, error) {
	name, inline := b.parseArgs(cmd.Args, true)
	st, err := b.styleFrom(b.mergeStyleAttributes(name, inline))
	if err != nil {
		return style.Style{}, fmt.Errorf("%s（第 %d 行）: %w", cmd.Name, cmd.Pos.Line, err)
	}
	return st, nil
}

func (b *builder) attrs(args []*Lexeme, allowStyle bool) map[string]string {
	name, inline := b.parseArgs(args, allowStyle)
	return b.mergeStyleAttributes(name, inline)
}

// parseArgs 解析 "name key value key value..." 形式的参数；
// allowStyle 为真且第一个参数是已定义的样式名时，将其作为样式返回。
func (b *builder) parseArgs(args []*Lexeme, allowStyle bool) (string, map[string]string) {
	result := map[string]string{}
	if len(args) == 0 {
		return "", result
	}
	cursor := 0
	var name string
	if allowStyle && args[0].Type == "Ident" {
		if _, ok := b.styles[args[0].Value]; ok {
			name = args[0].Value
			cursor = 1
		}
	}
	for cursor < len(args)-1 {
		result[args[cursor].Value] = args[cursor+1].Value
		cursor += 2
	}
	return name, result
}

func (b *builder) mergeStyleAttributes(name string, inline map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range b.styles[name] {
		out[k] = v
	}
	for k, v := range inline {
		out[k] = v
	}
	return out
}

// styleFrom 读取与文字样式相关的属性，其余属性由各命令自行处理。
func (b *builder) styleFrom(attrs map[string]string) (style.Style, error) {
	var st style.Style
	for key, v := range attrs {
		switch key {
		case "font":
			if _, err := b.lib.Face(v, false, false); err != nil {
				return st, err
			}
			st.Family = v
		case "size":
			l, err := units.ParseLength(v)
			if err != nil {
				return st, err
			}
			st.Size = l.PT()
		case "line-spacing":
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return st, fmt.Errorf("line-spacing: %w", err)
			}
			st.LineSpacing = f
		case "color":
			c, err := b.color(v)
			if err != nil {
				return st, err
			}
			st = st.WithColor(c)
		case "align":
			a, err := style.ParseAlignment(v)
			if err != nil {
				return st, err
			}
			st.Align = a
		case "bold":
			st.Bold = isTrue(v)
		case "italic":
			st.Italic = isTrue(v)
		}
	}
	return st, nil
}

func (b *builder) color(v string) (style.Color, error) {
	if c, ok := b.colors[v]; ok {
		return c, nil
	}
	return style.ParseColor(v)
}

// length 把长度换算为 mm，百分比相对于正文宽度；无法解析时为 0。
func (b *builder) length(v string) float64 {
	l, err := units.ParseLength(v)
	if err != nil {
		return 0
	}
	return l.MM(b.width)
}

func (b *builder) expand(text string, data any) (string, error) {
	if b.opts.Strict {
		return binding.Expand(text, data)
	}
	return binding.Interpolate(text, data), nil
}

// withValue 返回在 data 之上增加一个顶层键的新数据，原数据不变。
func withValue(data any, key string, val any) any {
	out := map[string]any{}
	if m, ok := data.(map[string]any); ok {
		for k, v := range m {
			out[k] = v
		}
	}
	out[key] = val
	return out
}

func resolvePageSize(spec PageSpec) (units.Size, error) {
	size, ok := units.PaperSize(spec.Size)
	if !ok {
		return units.Size{}, fmt.Errorf("暂不支持的纸张尺寸：%s", spec.Size)
	}
	for _, token := range spec.Params {
		if token.Value == "landscape" {
			size = size.Landscape()
		}
	}
	return size, nil
}

func resolveMargin(params []*Lexeme) units.Margins {
	margin := units.UniformMargins(defaultMargin)
	for i := 0; i < len(params); i++ {
		if params[i].Value != "margin" {
			continue
		}
		var vals []float64
		for j := i + 1; j < len(params) && len(vals) < 4; j++ {
			l, err := units.ParseLength(params[j].Value)
			if err != nil {
				break
			}
			vals = append(vals, l.MM(0))
		}
		if len(vals) > 0 {
			margin = units.MarginsFrom(vals...)
		}
	}
	return margin
}

func leadingNumbers(args []*Lexeme) ([]float64, []*Lexeme) {
	var out []float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a.Value, 64)
		if err != nil {
			return out, args[i:]
		}
		out = append(out, f)
	}
	return out, nil
}

func blockProps(block *Block) map[string]string {
	props := map[string]string{}
	if block == nil {
		return props
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		if v := valueToString(stmt.Assignment.Value); v != "" {
			props[stmt.Assignment.Key] = v
		}
	}
	return props
}

func extractText(block *Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

func isTrue(v string) bool {
	ok, err := strconv.ParseBool(v)
	return err == nil && ok
}

func valueToString(val *Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		var builder strings.Builder
		for _, part := range val.Expr.Parts {
			builder.WriteString(part.Value)
		}
		return builder.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}
