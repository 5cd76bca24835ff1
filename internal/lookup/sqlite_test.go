package lookup

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
)

func newTestGateway(t *testing.T) *SQLiteGateway {
	t.Helper()
	g, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestLookupCodeHitAndMiss(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	ctx := context.Background()

	err := g.InsertFaultCode(ctx, "950H", "4YS00123", domain.FaultCodeRecord{
		CID: "168", FMI: "04",
		Description: "System voltage below normal",
		Causes:      "Weak battery",
		URL:         "https://example.test/168-04",
	})
	if err != nil {
		t.Fatalf("InsertFaultCode failed: %v", err)
	}

	rec, err := g.LookupCode(ctx, "950H", "4YS", "168", "04")
	if err != nil {
		t.Fatalf("LookupCode failed: %v", err)
	}
	if rec == nil {
		t.Fatal("Expected a hit, got nil")
	}
	if rec.Description != "System voltage below normal" {
		t.Errorf("Unexpected description: %q", rec.Description)
	}

	// Matching is on the 3-character serial prefix, not the full serial.
	rec, err = g.LookupCode(ctx, "950H", "C7R", "168", "04")
	if err != nil {
		t.Fatalf("LookupCode failed: %v", err)
	}
	if rec != nil {
		t.Error("Expected a miss for a different serial prefix")
	}

	// Model matches exactly.
	rec, err = g.LookupCode(ctx, "320D", "4YS", "168", "04")
	if err != nil {
		t.Fatalf("LookupCode failed: %v", err)
	}
	if rec != nil {
		t.Error("Expected a miss for a different model")
	}
}

func TestLookupEventHitAndMiss(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	ctx := context.Background()

	err := g.InsertEvent(ctx, "320D", "KJG00777", domain.EventRecord{
		EID: "E0117", Level: "2",
		WarningDescription: "Engine coolant temperature high",
		URLMain:            "https://example.test/e0117",
	})
	if err != nil {
		t.Fatalf("InsertEvent failed: %v", err)
	}

	rec, err := g.LookupEvent(ctx, "320D", "KJG", "E0117", "2")
	if err != nil {
		t.Fatalf("LookupEvent failed: %v", err)
	}
	if rec == nil {
		t.Fatal("Expected a hit, got nil")
	}
	if rec.WarningDescription != "Engine coolant temperature high" {
		t.Errorf("Unexpected description: %q", rec.WarningDescription)
	}

	rec, err = g.LookupEvent(ctx, "320D", "KJG", "E0117", "3")
	if err != nil {
		t.Fatalf("LookupEvent failed: %v", err)
	}
	if rec != nil {
		t.Error("Expected a miss for a different level")
	}
}

func TestImportFaultCodesCSV(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	ctx := context.Background()

	csvData := strings.Join([]string{
		"model,serial,cid,fmi,description,causes,url",
		`950H,4YS00123,168,04,Low voltage,Weak battery,https://example.test/a`,
		`950H,4YS00123,190,08,Engine speed signal abnormal,Wiring,https://example.test/b`,
	}, "\n")

	n, err := g.ImportFaultCodesCSV(ctx, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportFaultCodesCSV failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 rows imported, got %d", n)
	}

	rec, err := g.LookupCode(ctx, "950H", "4YS", "190", "08")
	if err != nil {
		t.Fatalf("LookupCode failed: %v", err)
	}
	if rec == nil || rec.Description != "Engine speed signal abnormal" {
		t.Errorf("Expected imported row to resolve, got %+v", rec)
	}
}

func TestImportEventsCSV(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	ctx := context.Background()

	csvData := strings.Join([]string{
		"model,serial,eid,level,warning_description,url_main",
		`320D,KJG00777,E0117,2,Coolant temperature high,https://example.test/e`,
	}, "\n")

	n, err := g.ImportEventsCSV(ctx, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportEventsCSV failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 row imported, got %d", n)
	}

	rec, err := g.LookupEvent(ctx, "320D", "KJG", "E0117", "2")
	if err != nil {
		t.Fatalf("LookupEvent failed: %v", err)
	}
	if rec == nil {
		t.Fatal("Expected imported event to resolve")
	}
}

func TestImportBadCSVRollsBack(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	ctx := context.Background()

	// Second line has the wrong number of fields.
	csvData := "950H,4YS00123,168,04,Low voltage,Weak battery,https://example.test/a\nbroken,row\n"
	if _, err := g.ImportFaultCodesCSV(ctx, strings.NewReader(csvData)); err == nil {
		t.Fatal("Expected import error for malformed CSV")
	}

	rec, err := g.LookupCode(ctx, "950H", "4YS", "168", "04")
	if err != nil {
		t.Fatalf("LookupCode failed: %v", err)
	}
	if rec != nil {
		t.Error("Expected rollback to discard the partial import")
	}
}
