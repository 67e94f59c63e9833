package dsl_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/folio/dsl"
)

const sampleDSL = `
doc Invoice v1 {
  meta {
    title: "Invoice"
    keywords: [
      "finance"
      "internal"
    ]
  }

  resources {
    font Body {
      src: "fonts/Inter-Regular.ttf"
    }

    color Accent #0F62FE
    style Heading extends Base { size: 18pt; bold: true }
  }

  page A4 landscape margin 18mm {
    font: Body
    text Heading color Accent { "Hello, ${user.name}!" }

    table 1 2 header 1 {
      row { "Name" "Price" }
      rows "items" as item {
        cell { "${item.name}" }
        cell { "${item.price}" }
      }
    }

    pagebreak
    columns 1 3 {
      image Logo width 30mm
      paragraph { "a" span bold true { "b" } }
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Invoice" || doc.Version != "v1" {
		t.Fatalf("unexpected header %s %s", doc.Name, doc.Version)
	}

	var kinds []string
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	if diff := cmp.Diff([]string{"meta", "resources", "page"}, kinds); diff != "" {
		t.Fatalf("sections (-want +got):\n%s", diff)
	}

	meta := doc.Sections[0].Meta
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || string(*title.Value.String) != "Invoice" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil || len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", keywords)
	}

	res := doc.Sections[1].Resources.Block.Statements
	if len(res) != 3 {
		t.Fatalf("expected 3 resources, got %d", len(res))
	}
	if c := res[1].Command; c == nil || c.Name != "color" || c.Args[1].Type != "Color" {
		t.Fatalf("unexpected color resource %+v", res[1])
	}
	st := res[2].Command
	if st == nil || tokensToString(st.Args) != "Heading extends Base" || len(st.Block.Statements) != 2 {
		t.Fatalf("unexpected style resource %+v", res[2])
	}

	page := doc.Sections[2].Page
	if page.Spec.Size != "A4" {
		t.Fatalf("expected page size A4, got %s", page.Spec.Size)
	}
	if got := tokensToString(page.Spec.Params); got != "landscape margin 18mm" {
		t.Fatalf("unexpected page params: %s", got)
	}

	body := page.Block.Statements
	if body[0].Assignment == nil || body[0].Assignment.Key != "font" {
		t.Fatalf("expected font assignment, got %+v", body[0])
	}
	var names []string
	for _, stmt := range body[1:] {
		if stmt.Command == nil {
			t.Fatalf("expected command, got %+v", stmt)
		}
		names = append(names, stmt.Command.Name)
	}
	if diff := cmp.Diff([]string{"text", "table", "pagebreak", "columns"}, names); diff != "" {
		t.Fatalf("commands (-want +got):\n%s", diff)
	}

	text := body[1].Command
	if got := string(text.Block.Statements[0].Text.Value); !strings.Contains(got, "${user.name}") {
		t.Fatalf("expected interpolation in text literal, got %s", got)
	}

	table := body[2].Command
	if got := tokensToString(table.Args); got != "1 2 header 1" {
		t.Fatalf("unexpected table args: %s", got)
	}
	rows := table.Block.Statements[1].Command
	if rows == nil || rows.Name != "rows" || rows.Args[0].Type != "String" || rows.Args[0].Value != "items" {
		t.Fatalf("unexpected rows command %+v", table.Block.Statements[1])
	}

	columns := body[4].Command
	if len(columns.Block.Statements) != 2 {
		t.Fatalf("columns should hold 2 children, got %d", len(columns.Block.Statements))
	}
	if img := columns.Block.Statements[0].Command; tokensToString(img.Args) != "Logo width 30mm" {
		t.Fatalf("unexpected image args: %+v", img.Args)
	}
}

func TestParseExpressionValue(t *testing.T) {
	doc, err := dsl.ParseString(`doc D v1 {
  meta { subject: data.meta.kind }
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := doc.Sections[0].Meta.Block.Statements[0].Assignment
	if a == nil || a.Value.Expr == nil {
		t.Fatalf("expression not captured: %+v", a)
	}
	if got := tokensToString(a.Value.Expr.Parts); got != "data . meta . kind" {
		t.Fatalf("unexpected expression tokens: %s", got)
	}
}

func TestParseRejectsUnknownSection(t *testing.T) {
	if _, err := dsl.ParseString("doc D v1 {\n  footer { }\n}"); err == nil {
		t.Fatalf("unknown section should fail to parse")
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
