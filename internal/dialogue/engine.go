// Package dialogue implements the per-session conversation state
// machine that drives menu navigation, machine data collection and
// fault-code, event and maintenance lookups.
package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/lookup"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/maintenance"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/parse"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/report"
)

// backToken navigates one level up inside the maintenance sub-flow.
const backToken = "0"

// resetKeywords restart the conversation from any state.
var resetKeywords = map[string]bool{
	"hola":  true,
	"hello": true,
}

// ackTokens close the difference explainer.
var ackTokens = map[string]bool{
	"1": true, "ok": true, "okay": true, "yes": true,
	"understood": true, "got it": true, "thanks": true,
	"si": true, "sí": true, "gracias": true,
}

// Attachment is an opaque payload handed to the presentation layer
// alongside the reply text.
type Attachment struct {
	Kind        string
	Name        string
	ContentType string
	Data        []byte
}

// Response is what the engine hands back for one inbound message. Text
// uses plain "\n" line breaks; rendering them is the presentation
// layer's concern. EndSession tells the caller to drop the session.
type Response struct {
	Text        string
	Attachments []Attachment
	EndSession  bool
}

// Engine is the dialogue state machine. It is stateless itself; all
// conversation state lives in the Session the caller passes in. The
// caller must serialize calls per session (session.Store.Do does).
type Engine struct {
	gateway lookup.Gateway
	reports report.Assembler
	policy  parse.EventPolicy
}

// New creates a dialogue engine.
func New(gateway lookup.Gateway, reports report.Assembler, policy parse.EventPolicy) *Engine {
	return &Engine{gateway: gateway, reports: reports, policy: policy}
}

// Handle processes one inbound message against the session and returns
// the reply. The only error it returns is a collaborator failure; in
// that case the session is left exactly as it was so the user can
// retry the same message.
func (e *Engine) Handle(ctx context.Context, ses *domain.Session, message string) (Response, error) {
	msg := strings.TrimSpace(message)

	if resetKeywords[strings.ToLower(msg)] {
		ses.Reset()
	}

	switch ses.State {
	case domain.StateInitial:
		return e.handleInitial(ses), nil
	case domain.StateAwaitingConsent:
		return e.handleConsent(ses, msg), nil
	case domain.StateCollectingModel:
		return e.handleModel(ses, msg), nil
	case domain.StateCollectingSerial:
		return e.handleSerial(ses, msg), nil
	case domain.StateMainMenu:
		return e.handleMainMenu(ses, msg)
	case domain.StateEnteringCodes:
		return e.handleCodes(ctx, ses, msg)
	case domain.StateEnteringEvents:
		return e.handleEvents(ctx, ses, msg)
	case domain.StateChoosingMachine:
		return e.handleMachineChoice(ses, msg), nil
	case domain.StateChoosingInterval:
		return e.handleIntervalChoice(ses, msg), nil
	case domain.StatePostInterval:
		return e.handlePostInterval(ses, msg), nil
	case domain.StateExplainingDiff:
		return e.handleDifferenceAck(ses, msg), nil
	default:
		// Unknown state tag. Treat as corrupt and recover.
		return e.recoverCorrupt(ses, "state", string(ses.State)), nil
	}
}

func (e *Engine) handleInitial(ses *domain.Session) Response {
	ses.State = domain.StateAwaitingConsent
	welcome := "Hi, I am your CAT technical assistant.\n" +
		"I can help you interpret fault codes (CID/FMI) and events (EID/Level) " +
		"from the technical database, and walk you through preventive maintenance plans."
	consent := "Before we continue, do you agree to share information about your machine?\n" +
		"1. Yes, I agree to share model and serial\n" +
		"2. No, cancel"
	return Response{Text: welcome + "\n\n" + consent}
}

func (e *Engine) handleConsent(ses *domain.Session, msg string) Response {
	switch msg {
	case "1":
		ses.State = domain.StateCollectingModel
		return Response{Text: "Great.\n\nPlease tell me the MODEL of the machine.\nExamples: 950H, 320D, 777G."}
	case "2":
		return Response{
			Text:       "Understood. If you want to pick this up later, just say hello.",
			EndSession: true,
		}
	default:
		return Response{Text: "Please answer 1 or 2."}
	}
}

func (e *Engine) handleModel(ses *domain.Session, msg string) Response {
	if msg == "" {
		return Response{Text: "Please tell me the MODEL of the machine.\nExamples: 950H, 320D, 777G."}
	}
	ses.Model = strings.ToUpper(msg)
	ses.State = domain.StateCollectingSerial
	return Response{Text: fmt.Sprintf(
		"Model registered: %s\n\nNow enter the first 3 characters of the serial number.\nExamples: 4YS, C7R, KJG.",
		ses.Model)}
}

func (e *Engine) handleSerial(ses *domain.Session, msg string) Response {
	if msg == "" {
		return Response{Text: "Please enter the first 3 characters of the serial number.\nExamples: 4YS, C7R, KJG."}
	}
	serial := strings.ToUpper(msg)
	if len(serial) > 3 {
		serial = serial[:3]
	}
	ses.SerialPrefix = serial
	ses.State = domain.StateMainMenu
	return Response{Text: fmt.Sprintf(
		"Machine registered:\n- Model: %s\n- Serial: %s\n\n%s",
		ses.Model, ses.SerialPrefix, mainMenu())}
}

func (e *Engine) handleMainMenu(ses *domain.Session, msg string) (Response, error) {
	switch msg {
	case optCodes:
		ses.State = domain.StateEnteringCodes
		ses.CodeResults = nil
		return Response{Text: "Enter the fault codes.\n\nAccepted formats:\n- 168 04\n- 28 168 04\n- 168-04\n\nYou can enter several separated by commas."}, nil
	case optEvents:
		ses.State = domain.StateEnteringEvents
		ses.EventResults = nil
		return Response{Text: "Enter the events.\n\nAccepted formats:\n- E0117\n- 0117 (2)\n- E0117 nivel 2\n\nYou can enter several separated by commas."}, nil
	case optDifference:
		ses.State = domain.StateExplainingDiff
		return Response{Text: "Quick explanation:\n\n" +
			"Fault code (CID/FMI): reports an abnormal condition in a sensor or actuator.\n" +
			"Event (EID/Level): records an operating condition that affects the system.\n\n" +
			"Reply OK when you are ready to continue."}, nil
	case optMaintenance:
		ses.State = domain.StateChoosingMachine
		return Response{Text: machineMenu()}, nil
	case optChangeMachine:
		ses.ClearMachine()
		ses.State = domain.StateCollectingModel
		return Response{Text: "Please enter the new MODEL."}, nil
	case optFinish:
		return Response{
			Text:       "Thanks for using the CAT assistant. Come back any time!",
			EndSession: true,
		}, nil
	case optReport:
		return e.handleReport(ses)
	default:
		return Response{Text: "Choose an option from 1 to 7.\n\n" + mainMenu()}, nil
	}
}

func (e *Engine) handleReport(ses *domain.Session) (Response, error) {
	doc, err := e.reports.Build(ses.Model, ses.SerialPrefix, ses.CodeResults, ses.EventResults)
	if err != nil {
		return Response{}, fmt.Errorf("assemble report: %w", err)
	}
	// Hand-off succeeded; the accumulated lists are now the report's.
	ses.CodeResults = nil
	ses.EventResults = nil
	return Response{
		Text: "Your diagnostic report is ready.\n\n" + mainMenu(),
		Attachments: []Attachment{{
			Kind:        "document",
			Name:        doc.Filename,
			ContentType: doc.ContentType,
			Data:        doc.Data,
		}},
	}, nil
}

func (e *Engine) handleCodes(ctx context.Context, ses *domain.Session, msg string) (Response, error) {
	if ses.Model == "" || ses.SerialPrefix == "" {
		return e.recoverCorrupt(ses, "missing", "machine identity"), nil
	}

	var blocks []string
	var hits []domain.FaultCodeRecord
	tokens := splitTokens(msg)

	if len(tokens) == 0 {
		blocks = append(blocks, "I did not receive any codes.")
	}

	for _, raw := range tokens {
		q := parse.Code(raw)
		if !q.Complete() {
			blocks = append(blocks, fmt.Sprintf("I could not interpret %q.", raw))
			continue
		}

		fmi := parse.PadFMI(q.FMI)
		rec, err := e.gateway.LookupCode(ctx, ses.Model, ses.SerialPrefix, q.CID, fmi)
		if err != nil {
			// Session untouched so the same message can be retried.
			return Response{}, fmt.Errorf("lookup code %s/%s: %w", q.CID, fmi, err)
		}
		if rec == nil {
			blocks = append(blocks, fmt.Sprintf("No results for CID %s / FMI %s (%q).", q.CID, fmi, raw))
			continue
		}

		rec.Raw = raw
		hits = append(hits, *rec)
		blocks = append(blocks, formatCodeBlock(raw, rec))
	}

	ses.CodeResults = append(ses.CodeResults, hits...)
	ses.State = domain.StateMainMenu
	slog.Debug("Processed code batch", "tokens", len(tokens), "hits", len(hits))

	blocks = append(blocks, renderMenu("What would you like to do now?", followUpCodes))
	return Response{Text: strings.Join(blocks, "\n\n")}, nil
}

func (e *Engine) handleEvents(ctx context.Context, ses *domain.Session, msg string) (Response, error) {
	if ses.Model == "" || ses.SerialPrefix == "" {
		return e.recoverCorrupt(ses, "missing", "machine identity"), nil
	}

	var blocks []string
	var hits []domain.EventRecord
	tokens := splitTokens(msg)

	if len(tokens) == 0 {
		blocks = append(blocks, "I did not receive any events.")
	}

	for _, raw := range tokens {
		q := parse.Event(raw, e.policy)
		if !q.Complete() {
			blocks = append(blocks, fmt.Sprintf("I could not interpret %q.", raw))
			continue
		}

		eid := parse.PadEID(q.EID)
		rec, err := e.gateway.LookupEvent(ctx, ses.Model, ses.SerialPrefix, eid, q.Level)
		if err != nil {
			return Response{}, fmt.Errorf("lookup event %s level %s: %w", eid, q.Level, err)
		}
		if rec == nil {
			blocks = append(blocks, fmt.Sprintf("No information for %s level %s (%q).", eid, q.Level, raw))
			continue
		}

		rec.Raw = raw
		hits = append(hits, *rec)
		blocks = append(blocks, formatEventBlock(raw, rec))
	}

	ses.EventResults = append(ses.EventResults, hits...)
	ses.State = domain.StateMainMenu
	slog.Debug("Processed event batch", "tokens", len(tokens), "hits", len(hits))

	blocks = append(blocks, renderMenu("What would you like to do now?", followUpEvents))
	return Response{Text: strings.Join(blocks, "\n\n")}, nil
}

func (e *Engine) handleMachineChoice(ses *domain.Session, msg string) Response {
	if msg == backToken {
		ses.State = domain.StateMainMenu
		return Response{Text: mainMenu()}
	}

	types := maintenance.MachineTypes()
	n, err := strconv.Atoi(msg)
	if err != nil || n < 1 || n > len(types) {
		return Response{Text: fmt.Sprintf("Choose an option from 1 to %d.\n\n%s", len(types), machineMenu())}
	}

	mt := types[n-1]
	keys := maintenance.Intervals(mt)
	if len(keys) == 0 {
		// Catalog gap; stay on the machine menu rather than dead-end.
		return Response{Text: "No maintenance plan is available for that machine type.\n\n" + machineMenu()}
	}

	ses.MachineType = mt
	ses.IntervalMenu = keys
	ses.State = domain.StateChoosingInterval
	return Response{Text: intervalMenu(mt, keys)}
}

func (e *Engine) handleIntervalChoice(ses *domain.Session, msg string) Response {
	if ses.MachineType == "" || len(ses.IntervalMenu) == 0 {
		return e.recoverCorrupt(ses, "missing", "machine type selection")
	}

	if msg == backToken {
		ses.State = domain.StateChoosingMachine
		return Response{Text: machineMenu()}
	}

	n, err := strconv.Atoi(msg)
	if err != nil || n < 1 || n > len(ses.IntervalMenu) {
		return Response{Text: fmt.Sprintf("Choose an option from 1 to %d.\n\n%s",
			len(ses.IntervalMenu), intervalMenu(ses.MachineType, ses.IntervalMenu))}
	}

	key := ses.IntervalMenu[n-1]
	iv, link, ok := maintenance.Render(ses.MachineType, key)
	if !ok {
		return Response{Text: "That interval is not available for this machine type.\n\n" +
			intervalMenu(ses.MachineType, ses.IntervalMenu)}
	}

	ses.State = domain.StatePostInterval
	return Response{Text: formatInterval(iv, link) + "\n\n" + postIntervalMenu()}
}

func (e *Engine) handlePostInterval(ses *domain.Session, msg string) Response {
	switch msg {
	case "1":
		if ses.MachineType == "" || len(ses.IntervalMenu) == 0 {
			return e.recoverCorrupt(ses, "missing", "machine type selection")
		}
		ses.State = domain.StateChoosingInterval
		return Response{Text: intervalMenu(ses.MachineType, ses.IntervalMenu)}
	case "2":
		ses.State = domain.StateChoosingMachine
		return Response{Text: machineMenu()}
	case "3":
		ses.State = domain.StateMainMenu
		return Response{Text: mainMenu()}
	default:
		return Response{Text: postIntervalMenu()}
	}
}

func (e *Engine) handleDifferenceAck(ses *domain.Session, msg string) Response {
	if ackTokens[strings.ToLower(msg)] {
		ses.State = domain.StateMainMenu
		return Response{Text: mainMenu()}
	}
	return Response{Text: "Reply OK to go back to the menu."}
}

// recoverCorrupt resets a session whose invariants no longer hold back
// to the main menu instead of letting the conversation crash.
func (e *Engine) recoverCorrupt(ses *domain.Session, what, detail string) Response {
	slog.Warn("Session invariant violated, recovering to main menu",
		"token", ses.Token, "problem", what, "detail", detail)
	if ses.Model == "" || ses.SerialPrefix == "" {
		// Cannot show the main menu without a machine; restart collection.
		ses.State = domain.StateCollectingModel
		return Response{Text: "Something went out of sync. Let's start over.\n\nPlease tell me the MODEL of the machine."}
	}
	ses.MachineType = ""
	ses.IntervalMenu = nil
	ses.State = domain.StateMainMenu
	return Response{Text: "Something went out of sync, taking you back to the menu.\n\n" + mainMenu()}
}

// splitTokens splits a comma-separated batch, dropping empty entries.
func splitTokens(msg string) []string {
	var out []string
	for _, part := range strings.Split(msg, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func formatCodeBlock(raw string, rec *domain.FaultCodeRecord) string {
	desc := rec.Description
	if desc == "" {
		desc = "No description on file."
	}
	causes := rec.Causes
	if causes == "" {
		causes = "No recorded causes."
	}
	url := rec.URL
	if url == "" {
		url = "No URL available."
	}
	return fmt.Sprintf(
		"Code analyzed: %s\n\nDescription:\n%s\n\nPossible causes:\n%s\n\nFor more detail and guided tests see:\n%s",
		raw, desc, causes, url)
}

func formatEventBlock(raw string, rec *domain.EventRecord) string {
	desc := rec.WarningDescription
	if desc == "" {
		desc = "No description on file."
	}
	url := rec.URLMain
	if url == "" {
		url = "No URL available."
	}
	return fmt.Sprintf(
		"Event analyzed: %s\n\nDescription:\n%s\n\nFor more information see:\n%s",
		raw, desc, url)
}

func formatInterval(iv maintenance.Interval, link string) string {
	var b strings.Builder
	b.WriteString(iv.Label)
	b.WriteString("\n")
	for _, g := range iv.Groups {
		b.WriteString("\n")
		b.WriteString(g.Title)
		b.WriteString(":\n")
		for _, task := range g.Tasks {
			b.WriteString("- ")
			b.WriteString(task)
			b.WriteString("\n")
		}
	}
	b.WriteString("\nFull reference: ")
	b.WriteString(link)
	return b.String()
}
