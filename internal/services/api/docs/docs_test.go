package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestDocIsRegisteredAndValidJSON(t *testing.T) {
	raw, err := swag.ReadDoc("api")
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var spec map[string]any
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		t.Fatalf("doc is not JSON: %v", err)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	paths, _ := spec["paths"].(map[string]any)
	for _, p := range []string{"/convert/xml", "/convert/schema", "/convert/classify", "/meta/uptime"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("missing path %s", p)
		}
	}
}
