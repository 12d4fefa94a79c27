package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("zero limit should default, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("negative limit should default, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 1); got != MaxLimit {
		t.Fatalf("oversized limit should cap, got %d", got)
	}
	if got := NormalizeLimit(30); got != 30 {
		t.Fatalf("in-range limit should pass through, got %d", got)
	}
}

func TestOffset(t *testing.T) {
	cases := []struct {
		name   string
		params Params
		want   int
	}{
		{"firstPage", Params{Page: 0, Limit: 10}, 0},
		{"thirdPage", Params{Page: 2, Limit: 10}, 20},
		{"negativePage", Params{Page: -3, Limit: 10}, 0},
		{"defaultLimit", Params{Page: 1}, DefaultLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.params.Offset(); got != tc.want {
				t.Fatalf("expected offset %d, got %d", tc.want, got)
			}
		})
	}
}
