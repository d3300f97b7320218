package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"payroll/internal/core"
)

type sheetsCall struct {
	method string
	path   string
	query  string
	values [][]any
}

func newTestClient(t *testing.T, status int) (*Client, *[]sheetsCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []sheetsCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := sheetsCall{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		if r.Method == http.MethodPut {
			var vr struct {
				Values [][]any `json:"values"`
			}
			_ = json.NewDecoder(r.Body).Decode(&vr)
			call.values = vr.Values
		}
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 400 {
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return newClient(svc, "sheet-1", ""), &calls
}

func TestExportRoster(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK)
	n, err := c.ExportRoster(context.Background(), []core.Employee{
		{ID: 1, Name: "Ada", Role: "Developer", Department: "R&D", Salary: decimal.NewFromInt(72000), HiringDate: core.NewDate(2023, 4, 1)},
	})
	if err != nil || n != 1 {
		t.Fatalf("ExportRoster = %d, %v", n, err)
	}
	if len(*calls) != 2 {
		t.Fatalf("expected clear + update, got %+v", *calls)
	}

	clearCall := (*calls)[0]
	if clearCall.method != http.MethodPost || !strings.HasSuffix(clearCall.path, ":clear") || !strings.Contains(clearCall.path, "'Roster'!A:F") {
		t.Fatalf("unexpected clear call: %+v", clearCall)
	}

	update := (*calls)[1]
	if update.method != http.MethodPut || !strings.Contains(update.path, "/spreadsheets/sheet-1/values/'Roster'!A1") {
		t.Fatalf("unexpected update call: %+v", update)
	}
	if !strings.Contains(update.query, "valueInputOption=USER_ENTERED") {
		t.Fatalf("missing USER_ENTERED: %s", update.query)
	}
	if len(update.values) != 2 || update.values[1][1] != "Ada" {
		t.Fatalf("unexpected values: %v", update.values)
	}
}

func TestExportRosterFailure(t *testing.T) {
	c, calls := newTestClient(t, http.StatusInternalServerError)
	if _, err := c.ExportRoster(context.Background(), nil); err == nil {
		t.Fatal("expected error from failing Sheets API")
	}
	for _, call := range *calls {
		if call.method == http.MethodPut {
			t.Fatalf("update must not run after a failed clear")
		}
	}
}

func TestExportRosterWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "x", sheetName: "Roster"}
	if _, err := c.ExportRoster(context.Background(), nil); err == nil {
		t.Fatal("expected error with nil service")
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{ServiceAccountJSON: "{}"})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{
		SpreadsheetID:      "id",
		ServiceAccountFile: filepath.Join(t.TempDir(), "missing.json"),
	})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfigFromEnv_FallsBackToApplicationCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/etc/creds.json")

	cfg := ConfigFromEnv()
	if cfg.SpreadsheetID != "sheet" || cfg.ServiceAccountFile != "/etc/creds.json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
