package schedulehandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"turno/internal/domain/schedule"
	"turno/internal/transport/http/api"
)

func clock(hh, mm int) time.Time {
	return time.Date(0, time.January, 1, hh, mm, 0, 0, time.UTC)
}

func TestResolveInterval(t *testing.T) {
	day := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

	s, e := resolveInterval(day, clock(18, 0), clock(23, 0))
	if s.Day() != 7 || e.Day() != 7 || !e.After(s) {
		t.Fatalf("plain shift resolved to %v - %v", s, e)
	}

	// A closing shift past midnight ends the next day.
	s, e = resolveInterval(day, clock(18, 0), clock(1, 0))
	if e.Day() != 8 {
		t.Fatalf("closing shift should end on the 8th, got %v", e)
	}

	// Equal times stay equal so the editor can reject them.
	s, e = resolveInterval(day, clock(18, 0), clock(18, 0))
	if !e.Equal(s) {
		t.Fatalf("equal times must not roll over, got %v - %v", s, e)
	}
}

func TestAvailabilityFromStartsToday(t *testing.T) {
	zone := time.FixedZone("CET+2", 2*60*60)
	now := time.Date(2026, time.September, 7, 14, 30, 0, 0, zone)

	from := availabilityFrom(now)
	want := time.Date(2026, time.September, 7, 0, 0, 0, 0, zone)
	if !from.Equal(want) {
		t.Fatalf("window should open at today's midnight, got %v", from)
	}
	if from.After(now) {
		t.Fatalf("window must include today, got %v", from)
	}
}

func TestCreateShiftRejectsEqualTimes(t *testing.T) {
	h := NewHandler(schedule.NewService(schedule.NewStore(nil)), nil)

	body := `{"employeeId":"e1","date":"2026-09-07","startTime":"18:00","endTime":"18:00"}`
	req := httptest.NewRequest(http.MethodPost, "/shifts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.handleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var env api.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if env.Error == nil || env.Error.Code != "invalid_interval" {
		t.Fatalf("expected invalid_interval, got %+v", env.Error)
	}
}
