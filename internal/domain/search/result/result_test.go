package result

import "testing"

func TestNew(t *testing.T) {
	meta := map[string]any{"text": "hello", "chunk_index": 3}

	r := New("chunk-1", 0.95, meta)

	if r.ID() != "chunk-1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Score() != 0.95 {
		t.Errorf("Score() = %f", r.Score())
	}
	if r.Text() != "hello" {
		t.Errorf("Text() = %q", r.Text())
	}
	if r.Metadata()["chunk_index"] != 3 {
		t.Errorf("Metadata() = %v", r.Metadata())
	}
}

func TestText_Missing(t *testing.T) {
	r := New("id", 0, nil)
	if r.Text() != "" {
		t.Errorf("Text() = %q, want empty", r.Text())
	}
}
