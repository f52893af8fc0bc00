package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"turno/internal/app/server"
	"turno/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func testConfig(t *testing.T, dbURL string) config.Config {
	t.Helper()
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		DataEncryptionKey:  "0123456789abcdef0123456789abcdef",
		FrontendDir:        "frontend/dist",
		AvatarDir:          t.TempDir(),
		Environment:        "test",
		SeedAdminUsername:  "admin",
		SeedAdminPassword:  "ChangeMe123!",
		EmailFrom:          "no-reply@test.local",
		RunMigrations:      true,
		MigrationsDir:      filepath.Join("..", "..", "..", "..", "migrations"),
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
	}
}

func TestScheduleLeaveAndTimeclockJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(t, dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	adminToken := login(t, client, ts.URL, cfg.SeedAdminUsername, cfg.SeedAdminPassword)

	lastName := fmt.Sprintf("Tester%d", time.Now().UnixNano())
	employeeID, username := hireEmployee(t, client, ts.URL, adminToken, "Journey", lastName)

	// A freshly hired employee signs in with their username as password.
	staffToken := login(t, client, ts.URL, username, username)

	shiftID := createShift(t, client, ts.URL, adminToken, employeeID, "2026-09-07", "18:00", "23:00")
	if shiftID == "" {
		t.Fatal("expected shift id")
	}

	published := publishSchedule(t, client, ts.URL, adminToken, "2026-09-07")
	if published < 1 {
		t.Fatalf("expected at least one published shift, got %d", published)
	}

	requestID := submitLeave(t, client, ts.URL, staffToken, "Ferie", "2026-09-10", "2026-09-12")
	status := decideLeave(t, client, ts.URL, adminToken, requestID, "approve")
	if status != "approved" {
		t.Fatalf("expected leave status approved, got %s", status)
	}

	notifications := listNotifications(t, client, ts.URL, staffToken)
	found := false
	for _, n := range notifications {
		message, _ := n["message"].(string)
		if strings.Contains(message, "approvate") {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected an approval notification for the employee")
	}

	entryID := clockIn(t, client, ts.URL, staffToken)
	if entryID == "" {
		t.Fatal("expected time entry id")
	}

	if onBreak := toggleBreak(t, client, ts.URL, staffToken); !onBreak {
		t.Fatal("expected first break press to start the break")
	}
	if onBreak := toggleBreak(t, client, ts.URL, staffToken); onBreak {
		t.Fatal("expected second break press to end the break")
	}

	entry := clockOut(t, client, ts.URL, staffToken)
	if entry["clockOut"] == nil {
		t.Fatal("expected clockOut to be set after punching out")
	}

	if active := timeclockActive(t, client, ts.URL, staffToken); active {
		t.Fatal("expected no open entry after clocking out")
	}
}

func TestStaffCannotAccessAdminEndpoints(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(t, dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	adminToken := login(t, client, ts.URL, cfg.SeedAdminUsername, cfg.SeedAdminPassword)

	lastName := fmt.Sprintf("Staffer%d", time.Now().UnixNano())
	_, username := hireEmployee(t, client, ts.URL, adminToken, "Plain", lastName)
	staffToken := login(t, client, ts.URL, username, username)

	getJSONStatus(t, client, ts.URL+"/api/v1/leave/requests/pending-count", staffToken, http.StatusForbidden)
	getJSONStatus(t, client, ts.URL+"/api/v1/analytics/costs?month=2026-09", staffToken, http.StatusForbidden)
	getJSONStatus(t, client, ts.URL+"/api/v1/timeclock/logs", staffToken, http.StatusForbidden)
}

func login(t *testing.T, client *http.Client, baseURL, username, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"username": username,
		"password": password,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["accessToken"].(string)
	if token == "" {
		t.Fatal("expected access token")
	}
	return token
}

func hireEmployee(t *testing.T, client *http.Client, baseURL, token, firstName, lastName string) (string, string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/employees", token, map[string]any{
		"firstName":           firstName,
		"lastName":            lastName,
		"hourlyRate":          10,
		"hourlyRateNet":       7.5,
		"contractHoursWeekly": 40,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode employee response: %v", err)
	}
	id, _ := payload["id"].(string)
	username, _ := payload["username"].(string)
	if id == "" || username == "" {
		t.Fatal("expected employee id and username")
	}
	return id, username
}

func createShift(t *testing.T, client *http.Client, baseURL, token, employeeID, date, startTime, endTime string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/shifts", token, map[string]any{
		"employeeId": employeeID,
		"date":       date,
		"startTime":  startTime,
		"endTime":    endTime,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode shift response: %v", err)
	}
	id, _ := payload["id"].(string)
	return id
}

func publishSchedule(t *testing.T, client *http.Client, baseURL, token, date string) int {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/schedule/publish?date="+date+"&view=week", token, map[string]any{})
	var payload map[string]int
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode publish response: %v", err)
	}
	return payload["published"]
}

func submitLeave(t *testing.T, client *http.Client, baseURL, token, reason, startDate, endDate string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/leave/requests", token, map[string]any{
		"reason":    reason,
		"startDate": startDate,
		"endDate":   endDate,
		"isAllDay":  true,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode leave request response: %v", err)
	}
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatal("expected leave request id")
	}
	return id
}

func decideLeave(t *testing.T, client *http.Client, baseURL, token, requestID, verb string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/leave/requests/"+requestID+"/"+verb, token, map[string]any{})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode leave decision response: %v", err)
	}
	status, _ := payload["status"].(string)
	return status
}

func listNotifications(t *testing.T, client *http.Client, baseURL, token string) []map[string]any {
	t.Helper()
	resp := getJSON(t, client, baseURL+"/api/v1/notifications", token)
	var payload []map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode notifications response: %v", err)
	}
	return payload
}

func clockIn(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/timeclock/clock-in", token, map[string]any{})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode clock-in response: %v", err)
	}
	id, _ := payload["id"].(string)
	return id
}

func toggleBreak(t *testing.T, client *http.Client, baseURL, token string) bool {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/timeclock/break", token, map[string]any{})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode break response: %v", err)
	}
	onBreak, _ := payload["onBreak"].(bool)
	return onBreak
}

func clockOut(t *testing.T, client *http.Client, baseURL, token string) map[string]any {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/timeclock/clock-out", token, map[string]any{})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode clock-out response: %v", err)
	}
	return payload
}

func timeclockActive(t *testing.T, client *http.Client, baseURL, token string) bool {
	t.Helper()
	resp := getJSON(t, client, baseURL+"/api/v1/timeclock/status", token)
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode status response: %v", err)
	}
	active, _ := payload["active"].(bool)
	return active
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(http.MethodPost, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}

func getJSONStatus(t *testing.T, client *http.Client, url, token string, want int) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(raw))
	}
}
