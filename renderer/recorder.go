package renderer

import (
	"encoding/json"
	"errors"
	"os"
)

var (
	errPageOpen    = errors.New("renderer: previous page not finished")
	errNoPage      = errors.New("renderer: no page started")
	errClosed      = errors.New("renderer: backend already closed")
	errEmptyOutput = errors.New("renderer: no pages to write")
)

// Recorder 是只在内存中记录绘制指令的后端，用于调试输出与测试。
// Close 返回 JSON 形式的页面列表。
type Recorder struct {
	Meta   Meta
	Pages  []Page
	open   *Page
	closed bool
}

var _ Backend = (*Recorder)(nil)

// NewRecorder 创建空的记录器。
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) SetMeta(meta Meta) { r.Meta = meta }

func (r *Recorder) BeginPage(width, height float64) error {
	if r.closed {
		return errClosed
	}
	if r.open != nil {
		return errPageOpen
	}
	r.open = &Page{Width: width, Height: height}
	return nil
}

func (r *Recorder) FinishPage(ops []Op) error {
	if r.open == nil {
		return errNoPage
	}
	r.open.Ops = append([]Op(nil), ops...)
	r.Pages = append(r.Pages, *r.open)
	r.open = nil
	return nil
}

func (r *Recorder) Close() ([]byte, error) {
	if r.open != nil {
		return nil, errPageOpen
	}
	if len(r.Pages) == 0 {
		return nil, errEmptyOutput
	}
	r.closed = true
	return r.JSON()
}

// Reset 丢弃所有已记录页面，记录器可以重新使用。
func (r *Recorder) Reset() {
	r.Pages = nil
	r.open = nil
	r.closed = false
}

// Texts 按顺序返回所有页面上的文本指令，便于断言。
func (r *Recorder) Texts() []TextOp {
	var out []TextOp
	for _, p := range r.Pages {
		for _, op := range p.Ops {
			if t, ok := op.(TextOp); ok {
				out = append(out, t)
			}
		}
	}
	return out
}

// Links 按顺序返回所有页面上的链接区域。
func (r *Recorder) Links() []LinkOp {
	var out []LinkOp
	for _, p := range r.Pages {
		for _, op := range p.Ops {
			if l, ok := op.(LinkOp); ok {
				out = append(out, l)
			}
		}
	}
	return out
}

type jsonOp struct {
	Kind string `json:"kind"`
	Op   Op     `json:"op"`
}

type jsonPage struct {
	Page
	Ops []jsonOp `json:"ops"`
}

// JSON 将记录的页面序列化为带缩进的 JSON。
func (r *Recorder) JSON() ([]byte, error) {
	out := struct {
		Meta  Meta       `json:"meta"`
		Pages []jsonPage `json:"pages"`
	}{Meta: r.Meta, Pages: make([]jsonPage, 0, len(r.Pages))}
	for _, p := range r.Pages {
		jp := jsonPage{Page: p, Ops: make([]jsonOp, 0, len(p.Ops))}
		for _, op := range p.Ops {
			jp.Ops = append(jp.Ops, jsonOp{Kind: op.Kind(), Op: op})
		}
		out.Pages = append(out.Pages, jp)
	}
	return json.MarshalIndent(out, "", "  ")
}

// WriteDebugJSON 将记录结果写入文件，便于调试或可视化。
func (r *Recorder) WriteDebugJSON(path string) error {
	data, err := r.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Tee 把同一份绘制指令同时交给两个后端，Close 返回 primary 的输出。
func Tee(primary, secondary Backend) Backend {
	return &tee{primary: primary, secondary: secondary}
}

type tee struct {
	primary, secondary Backend
}

func (t *tee) SetMeta(meta Meta) {
	t.primary.SetMeta(meta)
	t.secondary.SetMeta(meta)
}

func (t *tee) BeginPage(width, height float64) error {
	if err := t.primary.BeginPage(width, height); err != nil {
		return err
	}
	return t.secondary.BeginPage(width, height)
}

func (t *tee) FinishPage(ops []Op) error {
	if err := t.primary.FinishPage(ops); err != nil {
		return err
	}
	return t.secondary.FinishPage(ops)
}

func (t *tee) Close() ([]byte, error) {
	out, err := t.primary.Close()
	if err != nil {
		return nil, err
	}
	if _, err := t.secondary.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *tee) Reset() {
	t.primary.Reset()
	t.secondary.Reset()
}
