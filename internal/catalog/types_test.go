package catalog

import "testing"

func TestMatchesQuery(t *testing.T) {
	product := Product{
		Name:         "Ergonomic Mesh Chair",
		CategoryName: "Office Furniture",
		Description:  "Breathable back support for long days",
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"mesh", true},
		{"MESH", true},
		{"furniture", true},
		{"breathable", true},
		{"standing desk", false},
		{"", false},
		{"   ", false},
	}
	for _, tt := range tests {
		if got := product.MatchesQuery(tt.query); got != tt.want {
			t.Fatalf("MatchesQuery(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestEffectivePrice(t *testing.T) {
	full := Product{Price: 200}
	if got := full.EffectivePrice(); got != 200 {
		t.Fatalf("no discount should keep list price, got %v", got)
	}
	discounted := Product{Price: 200, Discount: 25}
	if got := discounted.EffectivePrice(); got != 150 {
		t.Fatalf("expected 150, got %v", got)
	}
}
