package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/lookup"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/parse"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/report"
)

// fakeGateway serves canned records keyed by cid/fmi and eid/level.
type fakeGateway struct {
	codes  map[string]domain.FaultCodeRecord
	events map[string]domain.EventRecord
	down   bool
}

func (f *fakeGateway) LookupCode(_ context.Context, _, _, cid, fmi string) (*domain.FaultCodeRecord, error) {
	if f.down {
		return nil, lookup.ErrUnavailable
	}
	if rec, ok := f.codes[cid+"/"+fmi]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeGateway) LookupEvent(_ context.Context, _, _, eid, level string) (*domain.EventRecord, error) {
	if f.down {
		return nil, lookup.ErrUnavailable
	}
	if rec, ok := f.events[eid+"/"+level]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeGateway) Ping(context.Context) error { return nil }
func (f *fakeGateway) Close() error               { return nil }

func newTestEngine(policy parse.EventPolicy) (*Engine, *fakeGateway) {
	gw := &fakeGateway{
		codes: map[string]domain.FaultCodeRecord{
			"168/04": {
				CID: "168", FMI: "04",
				Description: "System voltage below normal",
				Causes:      "Weak battery, failing alternator, corroded harness",
				URL:         "https://example.test/cid168fmi04",
			},
		},
		events: map[string]domain.EventRecord{
			"E0117/2": {
				EID: "E0117", Level: "2",
				WarningDescription: "Engine coolant temperature high",
				URLMain:            "https://example.test/e0117",
			},
		},
	}
	return New(gw, report.NewTextAssembler(), policy), gw
}

// advance walks the session through the given messages, failing the
// test on any engine error.
func advance(t *testing.T, e *Engine, ses *domain.Session, msgs ...string) Response {
	t.Helper()
	var resp Response
	for _, m := range msgs {
		var err error
		resp, err = e.Handle(context.Background(), ses, m)
		if err != nil {
			t.Fatalf("Handle(%q) failed: %v", m, err)
		}
	}
	return resp
}

// toMainMenu drives a fresh session to the main menu with 950H / 4YS.
func toMainMenu(t *testing.T, e *Engine, ses *domain.Session) {
	t.Helper()
	advance(t, e, ses, "hi there", "1", "950H", "4YSabc")
	if ses.State != domain.StateMainMenu {
		t.Fatalf("Expected main menu, got %s", ses.State)
	}
}

func TestRoundTripToMainMenu(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")

	resp := advance(t, e, ses, "anything")
	if ses.State != domain.StateAwaitingConsent {
		t.Fatalf("Expected awaiting consent, got %s", ses.State)
	}
	if !strings.Contains(resp.Text, "1.") || !strings.Contains(resp.Text, "2.") {
		t.Errorf("Consent prompt missing options: %q", resp.Text)
	}

	advance(t, e, ses, "1")
	if ses.State != domain.StateCollectingModel {
		t.Fatalf("Expected collecting model, got %s", ses.State)
	}

	advance(t, e, ses, "950h")
	if ses.Model != "950H" {
		t.Errorf("Expected model 950H, got %q", ses.Model)
	}
	if ses.State != domain.StateCollectingSerial {
		t.Fatalf("Expected collecting serial, got %s", ses.State)
	}

	resp = advance(t, e, ses, "4YSabc")
	if ses.SerialPrefix != "4YS" {
		t.Errorf("Expected serial prefix 4YS, got %q", ses.SerialPrefix)
	}
	if ses.State != domain.StateMainMenu {
		t.Fatalf("Expected main menu, got %s", ses.State)
	}
	if !strings.Contains(resp.Text, "950H") || !strings.Contains(resp.Text, "4YS") {
		t.Errorf("Confirmation missing machine identity: %q", resp.Text)
	}
}

func TestConsentDeclineEndsSession(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")

	advance(t, e, ses, "hi")
	resp := advance(t, e, ses, "2")
	if !resp.EndSession {
		t.Error("Expected EndSession after declining consent")
	}
}

func TestConsentRePrompt(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")

	advance(t, e, ses, "hi")
	resp := advance(t, e, ses, "maybe")
	if ses.State != domain.StateAwaitingConsent {
		t.Errorf("Expected state unchanged, got %s", ses.State)
	}
	if resp.Text == "" {
		t.Error("Expected a re-prompt, got empty response")
	}
}

func TestCodeBatchHitAndMiss(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	advance(t, e, ses, "1")
	if ses.State != domain.StateEnteringCodes {
		t.Fatalf("Expected entering codes, got %s", ses.State)
	}

	resp := advance(t, e, ses, "168-04, 999-99")
	if ses.State != domain.StateMainMenu {
		t.Errorf("Expected return to main menu, got %s", ses.State)
	}
	if len(ses.CodeResults) != 1 {
		t.Fatalf("Expected exactly 1 collected result, got %d", len(ses.CodeResults))
	}
	if !strings.Contains(resp.Text, "System voltage below normal") {
		t.Errorf("Expected success block in response: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "No results for CID 999 / FMI 99") {
		t.Errorf("Expected miss notice in response: %q", resp.Text)
	}
}

func TestCodeBatchUnparsableToken(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	resp := advance(t, e, ses, "1", "garbage, 168-04")
	if !strings.Contains(resp.Text, `could not interpret "garbage"`) {
		t.Errorf("Expected per-token parse notice: %q", resp.Text)
	}
	if len(ses.CodeResults) != 1 {
		t.Errorf("Expected the valid token to still resolve, got %d results", len(ses.CodeResults))
	}
}

func TestCodeFMIPaddingBeforeLookup(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	// "168 4" parses to FMI "4" and must hit the "168/04" record.
	advance(t, e, ses, "1", "168 4")
	if len(ses.CodeResults) != 1 {
		t.Errorf("Expected padded FMI to hit, got %d results", len(ses.CodeResults))
	}
}

func TestCodeResultsResetOnReentry(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	advance(t, e, ses, "1", "168-04")
	advance(t, e, ses, "1", "168-04")
	if len(ses.CodeResults) != 1 {
		t.Errorf("Expected results reset on re-entry, got %d", len(ses.CodeResults))
	}
}

func TestEventBatchLenientDefaultLevel(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	// "E117" pads to E0117 and the level defaults to 2.
	resp := advance(t, e, ses, "2", "E117")
	if len(ses.EventResults) != 1 {
		t.Fatalf("Expected 1 event result, got %d", len(ses.EventResults))
	}
	if !strings.Contains(resp.Text, "Engine coolant temperature high") {
		t.Errorf("Expected event block in response: %q", resp.Text)
	}
}

func TestEventBatchStrictRejectsLooseFormats(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyStrict)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	resp := advance(t, e, ses, "2", "E0117 nivel 2, E0117(2)")
	if len(ses.EventResults) != 1 {
		t.Fatalf("Expected only the strict-form token to resolve, got %d", len(ses.EventResults))
	}
	if !strings.Contains(resp.Text, `could not interpret "E0117 nivel 2"`) {
		t.Errorf("Expected rejection notice: %q", resp.Text)
	}
}

func TestCollaboratorFailureLeavesSessionUnchanged(t *testing.T) {
	t.Parallel()

	e, gw := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)
	advance(t, e, ses, "1")

	gw.down = true
	_, err := e.Handle(context.Background(), ses, "168-04")
	if err == nil {
		t.Fatal("Expected error when the store is unavailable")
	}
	if !errors.Is(err, lookup.ErrUnavailable) {
		t.Errorf("Expected wrapped ErrUnavailable, got %v", err)
	}
	if ses.State != domain.StateEnteringCodes {
		t.Errorf("Expected state unchanged for retry, got %s", ses.State)
	}
	if len(ses.CodeResults) != 0 {
		t.Errorf("Expected no partial results, got %d", len(ses.CodeResults))
	}

	// Same message succeeds after the store recovers.
	gw.down = false
	advance(t, e, ses, "168-04")
	if len(ses.CodeResults) != 1 {
		t.Errorf("Expected retry to succeed, got %d results", len(ses.CodeResults))
	}
}

func TestResetKeywordFromAnyState(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)

	setups := map[string][]string{
		"consent":   {"hi"},
		"model":     {"hi", "1"},
		"serial":    {"hi", "1", "950H"},
		"main menu": {"hi", "1", "950H", "4YS"},
		"codes":     {"hi", "1", "950H", "4YS", "1"},
		"machine":   {"hi", "1", "950H", "4YS", "4"},
	}
	for name, msgs := range setups {
		ses := domain.NewSession("t")
		advance(t, e, ses, msgs...)

		resp := advance(t, e, ses, "HOLA")
		if ses.State != domain.StateAwaitingConsent {
			t.Errorf("%s: expected awaiting consent after reset, got %s", name, ses.State)
		}
		if ses.Model != "" || ses.SerialPrefix != "" {
			t.Errorf("%s: expected cleared machine identity after reset", name)
		}
		if !strings.Contains(resp.Text, "technical assistant") {
			t.Errorf("%s: expected welcome message, got %q", name, resp.Text)
		}
	}
}

func TestChangeMachineClearsIdentity(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	advance(t, e, ses, "5")
	if ses.State != domain.StateCollectingModel {
		t.Errorf("Expected collecting model, got %s", ses.State)
	}
	if ses.Model != "" || ses.SerialPrefix != "" {
		t.Error("Expected machine identity cleared")
	}
}

func TestMainMenuUnrecognizedReShowsMenu(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	resp := advance(t, e, ses, "99")
	if ses.State != domain.StateMainMenu {
		t.Errorf("Expected state unchanged, got %s", ses.State)
	}
	if !strings.Contains(resp.Text, "Interpret fault codes") {
		t.Errorf("Expected menu re-shown: %q", resp.Text)
	}
}

func TestFinishEndsSession(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	resp := advance(t, e, ses, "6")
	if !resp.EndSession {
		t.Error("Expected EndSession on finish")
	}
}

func TestDifferenceExplainerAck(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	advance(t, e, ses, "3")
	if ses.State != domain.StateExplainingDiff {
		t.Fatalf("Expected explaining difference, got %s", ses.State)
	}

	advance(t, e, ses, "hmm")
	if ses.State != domain.StateExplainingDiff {
		t.Errorf("Expected re-prompt to keep state, got %s", ses.State)
	}

	advance(t, e, ses, "OK")
	if ses.State != domain.StateMainMenu {
		t.Errorf("Expected return to main menu, got %s", ses.State)
	}
}

func TestMaintenanceFlow(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	resp := advance(t, e, ses, "4")
	if ses.State != domain.StateChoosingMachine {
		t.Fatalf("Expected choosing machine, got %s", ses.State)
	}
	if !strings.Contains(resp.Text, "Excavator") {
		t.Errorf("Expected machine menu: %q", resp.Text)
	}

	// Pick the excavator and capture the interval menu.
	firstMenu := advance(t, e, ses, "3").Text
	if ses.State != domain.StateChoosingInterval {
		t.Fatalf("Expected choosing interval, got %s", ses.State)
	}
	if ses.MachineType != domain.MachineExcavator {
		t.Errorf("Expected excavator selected, got %s", ses.MachineType)
	}
	captured := append([]string(nil), ses.IntervalMenu...)

	// Out-of-range and junk re-show the same menu without moving.
	for _, bad := range []string{"42", "soon", ""} {
		resp = advance(t, e, ses, bad)
		if ses.State != domain.StateChoosingInterval {
			t.Errorf("Input %q: expected state unchanged, got %s", bad, ses.State)
		}
	}

	resp = advance(t, e, ses, "1")
	if ses.State != domain.StatePostInterval {
		t.Fatalf("Expected post interval, got %s", ses.State)
	}
	if !strings.Contains(resp.Text, "Check engine oil level") {
		t.Errorf("Expected rendered tasks: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "excavators") {
		t.Errorf("Expected reference link: %q", resp.Text)
	}

	// "View another interval" must reproduce the identical ordering.
	resp = advance(t, e, ses, "1")
	if ses.State != domain.StateChoosingInterval {
		t.Fatalf("Expected choosing interval again, got %s", ses.State)
	}
	if resp.Text != firstMenu {
		t.Errorf("Expected identical interval menu.\nfirst: %q\nagain: %q", firstMenu, resp.Text)
	}
	for i, k := range ses.IntervalMenu {
		if captured[i] != k {
			t.Errorf("Interval menu ordering changed at %d: %q vs %q", i, captured[i], k)
		}
	}
}

func TestMaintenanceBackNavigation(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	advance(t, e, ses, "4", "0")
	if ses.State != domain.StateMainMenu {
		t.Errorf("Expected back to main menu, got %s", ses.State)
	}

	advance(t, e, ses, "4", "2", "0")
	if ses.State != domain.StateChoosingMachine {
		t.Errorf("Expected back to machine menu, got %s", ses.State)
	}
}

func TestPostIntervalOptions(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)
	advance(t, e, ses, "4", "1", "1")
	if ses.State != domain.StatePostInterval {
		t.Fatalf("Expected post interval, got %s", ses.State)
	}

	resp := advance(t, e, ses, "what")
	if ses.State != domain.StatePostInterval {
		t.Errorf("Expected re-prompt to keep state, got %s", ses.State)
	}
	if !strings.Contains(resp.Text, "View another interval") {
		t.Errorf("Expected the three options: %q", resp.Text)
	}

	advance(t, e, ses, "2")
	if ses.State != domain.StateChoosingMachine {
		t.Errorf("Expected change machine type, got %s", ses.State)
	}

	advance(t, e, ses, "1", "1", "3")
	if ses.State != domain.StateMainMenu {
		t.Errorf("Expected back to main menu, got %s", ses.State)
	}
}

func TestSessionCorruptRecovers(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	// Force a machine-specific sub-state with no machine type recorded.
	ses.State = domain.StateChoosingInterval
	ses.MachineType = ""
	ses.IntervalMenu = nil

	resp := advance(t, e, ses, "1")
	if ses.State != domain.StateMainMenu {
		t.Errorf("Expected recovery to main menu, got %s", ses.State)
	}
	if resp.Text == "" {
		t.Error("Expected an explanation, got empty response")
	}
}

func TestReportClearsAccumulatedResults(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)
	advance(t, e, ses, "1", "168-04")

	resp := advance(t, e, ses, "7")
	if len(resp.Attachments) != 1 {
		t.Fatalf("Expected one document attachment, got %d", len(resp.Attachments))
	}
	doc := resp.Attachments[0]
	if doc.Kind != "document" || len(doc.Data) == 0 {
		t.Errorf("Unexpected attachment: kind=%q len=%d", doc.Kind, len(doc.Data))
	}
	if !strings.Contains(string(doc.Data), "CID 168 / FMI 04") {
		t.Errorf("Expected resolved code in report: %q", string(doc.Data))
	}
	if len(ses.CodeResults) != 0 || len(ses.EventResults) != 0 {
		t.Error("Expected accumulated results cleared after hand-off")
	}
	if ses.State != domain.StateMainMenu {
		t.Errorf("Expected to stay on main menu, got %s", ses.State)
	}
}

func TestEmptyBatchStillResponds(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(parse.EventPolicyLenient)
	ses := domain.NewSession("t")
	toMainMenu(t, e, ses)

	resp := advance(t, e, ses, "1", "")
	if resp.Text == "" {
		t.Error("Expected a response for an empty batch")
	}
	if ses.State != domain.StateMainMenu {
		t.Errorf("Expected return to main menu, got %s", ses.State)
	}
}
