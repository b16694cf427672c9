package outline

import (
	"encoding/json"
	"testing"
)

func TestRenderXML(t *testing.T) {
	tree := mustParse(t, "## h2")
	out, err := RenderXML(tree, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<root><h level="2" id="0.1">## h2</h></root>`
	if string(out) != want {
		t.Errorf("expected %s, got %s", want, out)
	}
}

func TestRenderXML_NestingAndEscaping(t *testing.T) {
	tree := mustParse(t, "# A & B\n<text>\n## C")
	out, err := RenderXML(tree, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<root><h level="1" id="1"># A &amp; B<p>&lt;text&gt;</p><h level="2" id="1.1">## C</h></h></root>`
	if string(out) != want {
		t.Errorf("expected %s, got %s", want, out)
	}
}

func TestMarkup_JSON(t *testing.T) {
	tree := mustParse(t, "# A\nbody")
	data, err := json.Marshal(Markup(tree))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"tag":"root","text":"","children":[{"tag":"h","level":1,"id":"1","text":"# A","children":[{"tag":"p","text":"body"}]}]}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}
