package prompt

import "testing"

func TestLoadValidatesAllVariants(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, name := range r.Variants() {
		tmpl, err := r.Get(name)
		if err != nil {
			t.Fatalf("get %s: %v", name, err)
		}
		if tmpl == "" {
			t.Fatalf("variant %s is empty", name)
		}
	}
}

func TestGetUnknownVariant(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := r.Get("asset_extraction_v9"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}
