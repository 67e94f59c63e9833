package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/hyphen"
	"github.com/ByLCY/folio/imaging"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
	canvasrenderer "github.com/ByLCY/folio/renderer/canvas"
)

type config struct {
	input, output, debug string
	hyphPatterns, locale string
	data                 any
	strict, verbose      bool
	maxPages, maxPixels  int
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "in", "examples/demo.folio", "DSL 文件路径")
	flag.StringVar(&cfg.output, "out", "output/demo.pdf", "PDF 输出路径")
	flag.StringVar(&cfg.debug, "debug", "", "绘制指令调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	flag.StringVar(&cfg.hyphPatterns, "hyph", "", "断字规则文件（TeX patterns），为空时不断字")
	flag.StringVar(&cfg.locale, "locale", "", "断字语言，默认读取 meta 中的 lang")
	flag.BoolVar(&cfg.strict, "strict", false, "数据绑定缺失时报错")
	flag.IntVar(&cfg.maxPages, "max-pages", 0, "页数上限，0 表示不限")
	flag.IntVar(&cfg.maxPixels, "max-pixels", 0, "图片像素上限，超过时缩小，0 表示不限")
	flag.BoolVar(&cfg.verbose, "v", false, "输出排版日志")
	flag.Parse()

	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &cfg.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	if err := run(cfg); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", cfg.output)
}

// run 串联解析、构建、排版与渲染。
func run(cfg config) error {
	file, err := os.Open(cfg.input)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", cfg.input, err)
	}
	defer file.Close()

	ast, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	res, err := dsl.Build(ast, cfg.data, dsl.BuildOptions{
		Decoder: imaging.NewDecoder(imaging.Options{MaxPixels: cfg.maxPixels}),
		BaseDir: filepath.Dir(cfg.input),
		Strict:  cfg.strict,
	})
	if err != nil {
		return fmt.Errorf("构建文档失败: %w", err)
	}

	locale := cfg.locale
	if locale == "" {
		locale = res.Locale
	}
	opts := layout.Options{
		Fonts:    res.Fonts,
		Locale:   locale,
		MaxPages: cfg.maxPages,
		Logger:   newLogger(cfg.verbose),
	}
	if cfg.hyphPatterns != "" {
		patterns, err := hyphen.LoadFile(cfg.hyphPatterns, defaultLocale(locale))
		if err != nil {
			return err
		}
		opts.Hyphenator = hyphen.NewRegistry(patterns)
		opts.Hyphenate = true
	}

	pdf := canvasrenderer.New(res.Fonts, canvasrenderer.Options{})
	var backend renderer.Backend = pdf
	var rec *renderer.Recorder
	if cfg.debug != "" {
		rec = renderer.NewRecorder()
		backend = renderer.Tee(pdf, rec)
	}

	pdfBytes, err := res.Document.Render(backend, opts)
	if err != nil {
		return fmt.Errorf("排版失败: %w", err)
	}

	if rec != nil {
		if err := writeDebug(rec, cfg.debug); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(cfg.output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

func defaultLocale(locale string) string {
	if locale == "" {
		return "en"
	}
	return locale
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func writeDebug(rec *renderer.Recorder, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := rec.WriteDebugJSON(debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
