// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Widget: {
	name:  string & !=""
	count: int & >=0
	tags?: [...string]
}
`

type widget struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	data := []byte(`
name:  "gear"
count: 3
tags: ["small", "metal"]
`)
	res, err := ParseAndDecode[widget]([]byte(testSchema), data, "#Widget")
	if err != nil {
		t.Fatalf("ParseAndDecode() error: %v", err)
	}
	if res.Value.Name != "gear" || res.Value.Count != 3 {
		t.Errorf("decoded = %+v, want name=gear count=3", res.Value)
	}
	if len(res.Value.Tags) != 2 {
		t.Errorf("tags = %v, want 2 entries", res.Value.Tags)
	}
}

func TestParseAndDecode_SchemaViolation(t *testing.T) {
	t.Parallel()

	data := []byte(`
name:  "gear"
count: -1
`)
	_, err := ParseAndDecode[widget]([]byte(testSchema), data, "#Widget", WithFilename("widget.cue"))
	if err == nil {
		t.Fatal("ParseAndDecode() succeeded, want schema violation")
	}
	if !strings.Contains(err.Error(), "widget.cue") {
		t.Errorf("error %q should name the file", err)
	}
	if !strings.Contains(err.Error(), "count") {
		t.Errorf("error %q should name the offending field", err)
	}
}

func TestParseAndDecode_NotConcrete(t *testing.T) {
	t.Parallel()

	data := []byte(`name: "gear"`)

	if _, err := ParseAndDecode[widget]([]byte(testSchema), data, "#Widget"); err == nil {
		t.Error("missing count should fail when concreteness is required")
	}
}

func TestParseAndDecode_SizeLimit(t *testing.T) {
	t.Parallel()

	data := []byte(`name: "gear"` + "\n" + `count: 1`)
	_, err := ParseAndDecode[widget]([]byte(testSchema), data, "#Widget", WithMaxFileSize(4))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error = %v, want a size limit rejection", err)
	}
}

func TestParseAndDecode_UnknownSchemaPath(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[widget]([]byte(testSchema), []byte(`name: "x"`), "#Nope")
	if err == nil || !strings.Contains(err.Error(), "#Nope") {
		t.Errorf("error = %v, want unknown definition #Nope", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{path: nil, want: ""},
		{path: []string{"tasks"}, want: "tasks"},
		{path: []string{"tasks", "0", "name"}, want: "tasks[0].name"},
		{path: []string{"plugins", "2", "params", "1"}, want: "plugins[2].params[1]"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
