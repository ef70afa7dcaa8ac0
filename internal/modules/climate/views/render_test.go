package views

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadTemplates_success(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates() = %v; want nil", err)
	}
	if indexTmpl == nil {
		t.Fatal("LoadTemplates() left indexTmpl nil")
	}
}

func TestLoadTemplates_failure(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{name: "no html files", fsys: fstest.MapFS{"templates/readme.txt": {Data: []byte("x")}}},
		{name: "invalid syntax", fsys: fstest.MapFS{"templates/index.html": {Data: []byte("{{ .")}}},
	}
	prev := indexTmpl
	t.Cleanup(func() { indexTmpl = prev })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := loadTemplatesFromFS(tt.fsys, "templates"); err == nil {
				t.Fatal("loadTemplatesFromFS() = nil; want error")
			}
		})
	}
}

func TestRenderIndex_notLoaded(t *testing.T) {
	prev := indexTmpl
	indexTmpl = nil
	t.Cleanup(func() { indexTmpl = prev })

	var buf bytes.Buffer
	err := RenderIndex(&buf, DefaultIndexData())
	if err == nil {
		t.Fatal("RenderIndex() = nil; want error when templates not loaded")
	}
	if !strings.Contains(err.Error(), "not loaded") {
		t.Errorf("err = %q; want message containing \"not loaded\"", err.Error())
	}
}

func TestRenderIndex_listsRoutes(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	var buf bytes.Buffer
	if err := RenderIndex(&buf, DefaultIndexData()); err != nil {
		t.Fatalf("RenderIndex() = %v; want nil", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		`href="/api/v1.0/precipitation"`,
		`href="/api/v1.0/stations"`,
		`href="/api/v1.0/tobs"`,
		`href="/api/v1.0/08232016"`,
		`href="/api/v1.0/08232016/08232017"`,
		"(format MMDDYYYY/MMDDYYYY)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderIndex_escapesData(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	var buf bytes.Buffer
	data := IndexData{Title: "<script>x</script>", Routes: []RouteLink{{Href: "/a", Label: "<b>"}}}
	if err := RenderIndex(&buf, data); err != nil {
		t.Fatalf("RenderIndex() = %v", err)
	}
	if strings.Contains(buf.String(), "<script>") || strings.Contains(buf.String(), "<b>") {
		t.Errorf("output not escaped: %q", buf.String())
	}
}
