package verisure

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-verisure/pkg/page"
)

func TestRenderPage(t *testing.T) {
	out, err := RenderPage(context.Background(), page.KindInstitute, RenderOptions{
		Values: map[string]map[string]string{"certForm": {"orgName": "Acme"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`id="certForm"`, `id="viewCertForm"`, `value="Acme"`, `id="pdfViewer"`} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("expected %s in page", want)
		}
	}
}

func TestRenderPage_ProbeIsNotAPage(t *testing.T) {
	if _, err := RenderPage(context.Background(), page.KindProbe, RenderOptions{}); err == nil {
		t.Fatalf("expected error for probe kind")
	}
}

func TestEmbeddedFiles(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "page.tpl"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
	if _, err := fs.ReadFile(EmbeddedAssets(), "verisure.css"); err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
}

func TestLoadContract_RejectsGarbage(t *testing.T) {
	if _, err := LoadContract(context.Background(), []byte("not: [openapi")); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := Contract(); err != nil {
		t.Fatalf("embedded contract: %v", err)
	}
}
