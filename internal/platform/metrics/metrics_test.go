package metrics

import (
	"testing"
	"time"
)

func TestAreaOf(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/api/v1/shifts", "shifts"},
		{"/api/v1/shifts/abc/publish", "shifts"},
		{"/api/v1/timeclock/clock-in", "timeclock"},
		{"/api/v1/", "other"},
		{"/healthz", "other"},
		{"/avatars/x.png", "other"},
	}
	for _, tc := range cases {
		if got := AreaOf(tc.path); got != tc.want {
			t.Errorf("AreaOf(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestCollectorRecord(t *testing.T) {
	c := New()
	c.Record("shifts", 200, 20*time.Millisecond)
	c.Record("shifts", 500, 30*time.Millisecond)
	c.Record("timeclock", 429, time.Second)

	snap := c.Snapshot()
	if snap["requestsTotal"] != uint64(3) {
		t.Fatalf("requestsTotal = %v", snap["requestsTotal"])
	}
	if snap["errorsTotal"] != uint64(1) {
		t.Fatalf("errorsTotal = %v", snap["errorsTotal"])
	}
	if snap["rateLimitedTotal"] != uint64(1) {
		t.Fatalf("rateLimitedTotal = %v", snap["rateLimitedTotal"])
	}
	if snap["slowTotal"] != uint64(1) {
		t.Fatalf("slowTotal = %v", snap["slowTotal"])
	}
	areas := snap["requestsByArea"].(map[string]uint64)
	if areas["shifts"] != 2 || areas["timeclock"] != 1 {
		t.Fatalf("requestsByArea = %v", areas)
	}
}
