package dialogue

import (
	"fmt"
	"strings"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/maintenance"
)

// menuOption is one numbered choice in a rendered menu.
type menuOption struct {
	key   string
	label string
}

// Main-menu option keys. Follow-up menus reuse these keys so the same
// numbers mean the same thing everywhere in the conversation.
const (
	optCodes         = "1"
	optEvents        = "2"
	optDifference    = "3"
	optMaintenance   = "4"
	optChangeMachine = "5"
	optFinish        = "6"
	optReport        = "7"
)

var mainMenuOptions = []menuOption{
	{optCodes, "Interpret fault codes"},
	{optEvents, "Interpret events"},
	{optDifference, "Difference between a code and an event"},
	{optMaintenance, "Preventive maintenance plans"},
	{optChangeMachine, "Change machine"},
	{optFinish, "Finish conversation"},
	{optReport, "Generate diagnostic report"},
}

// followUpCodes is shown after a batch of codes is processed.
var followUpCodes = []menuOption{
	{optCodes, "More codes"},
	{optEvents, "Events"},
	{optChangeMachine, "Change machine"},
	{optFinish, "Finish"},
}

// followUpEvents is shown after a batch of events is processed.
var followUpEvents = []menuOption{
	{optCodes, "Fault codes"},
	{optEvents, "More events"},
	{optChangeMachine, "Change machine"},
	{optFinish, "Finish"},
}

// renderMenu renders a titled numbered menu. All menus in the dialogue
// go through here so the copy cannot drift between states.
func renderMenu(title string, opts []menuOption) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n")
	}
	for _, o := range opts {
		fmt.Fprintf(&b, "%s. %s\n", o.key, o.label)
	}
	return strings.TrimRight(b.String(), "\n")
}

func mainMenu() string {
	return renderMenu("What would you like to do?", mainMenuOptions)
}

// machineMenu lists the machine types for the maintenance sub-flow.
func machineMenu() string {
	opts := make([]menuOption, 0, len(maintenance.MachineTypes())+1)
	for i, mt := range maintenance.MachineTypes() {
		opts = append(opts, menuOption{fmt.Sprintf("%d", i+1), maintenance.DisplayName(mt)})
	}
	opts = append(opts, menuOption{backToken, "Back to main menu"})
	return renderMenu("Which machine type?", opts)
}

// intervalMenu lists the interval keys captured in the session, in the
// order they were captured, so numeric choices stay stable.
func intervalMenu(mt domain.MachineType, keys []string) string {
	opts := make([]menuOption, 0, len(keys)+1)
	for i, key := range keys {
		label := key
		if iv, _, ok := maintenance.Render(mt, key); ok {
			label = iv.Label
		}
		opts = append(opts, menuOption{fmt.Sprintf("%d", i+1), label})
	}
	opts = append(opts, menuOption{backToken, "Back to machine types"})
	title := fmt.Sprintf("Maintenance plan for %s. Choose an interval:", maintenance.DisplayName(mt))
	return renderMenu(title, opts)
}

var postIntervalOptions = []menuOption{
	{"1", "View another interval"},
	{"2", "Change machine type"},
	{"3", "Back to main menu"},
}

func postIntervalMenu() string {
	return renderMenu("What next?", postIntervalOptions)
}
