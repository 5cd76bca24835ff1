package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
)

// EventPolicy selects how event tokens are parsed. The deployed system
// went through two incompatible formats; both are kept and the choice
// is a configuration decision, not a guess.
type EventPolicy string

const (
	// EventPolicyLenient accepts an optional leading E, the digits
	// anywhere in the text, and a level given in parentheses or as
	// "nivel N". A missing level defaults to "2".
	EventPolicyLenient EventPolicy = "lenient"
	// EventPolicyStrict accepts only the exact shape E<digits>(<1-3>).
	// Nothing is defaulted; any deviation rejects the whole token.
	EventPolicyStrict EventPolicy = "strict"
)

// ParseEventPolicy validates a policy name from configuration.
func ParseEventPolicy(s string) (EventPolicy, error) {
	switch EventPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case EventPolicyLenient:
		return EventPolicyLenient, nil
	case EventPolicyStrict:
		return EventPolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown event parse policy %q", s)
	}
}

var (
	lenientEID    = regexp.MustCompile(`(?:E)?(\d{3,4})`)
	lenientParen  = regexp.MustCompile(`\((\d{1,2})\)`)
	lenientNivel  = regexp.MustCompile(`NIVEL\s*(\d{1,2})`)
	strictPattern = regexp.MustCompile(`^E(\d+)\(([123])\)$`)
)

// Event parses one comma-separated token into an event query under the
// given policy.
func Event(raw string, policy EventPolicy) domain.EventQuery {
	if policy == EventPolicyStrict {
		return eventStrict(raw)
	}
	return eventLenient(raw)
}

func eventLenient(raw string) domain.EventQuery {
	t := strings.ToUpper(raw)
	t = strings.ReplaceAll(t, "-", " ")

	m := lenientEID.FindStringSubmatch(t)
	if m == nil {
		return domain.EventQuery{}
	}
	q := domain.EventQuery{EID: "E" + m[1]}

	if lv := lenientParen.FindStringSubmatch(t); lv != nil {
		q.Level = lv[1]
	} else if lv := lenientNivel.FindStringSubmatch(t); lv != nil {
		q.Level = lv[1]
	} else {
		q.Level = "2"
	}
	return q
}

func eventStrict(raw string) domain.EventQuery {
	t := strings.ToUpper(strings.TrimSpace(raw))
	m := strictPattern.FindStringSubmatch(t)
	if m == nil {
		return domain.EventQuery{}
	}
	return domain.EventQuery{EID: "E" + m[1], Level: m[2]}
}

// PadFMI normalizes a failure-mode identifier to two digits so lookups
// always see canonical keys ("4" and "04" hit the same row).
func PadFMI(fmi string) string {
	if len(fmi) == 1 {
		return "0" + fmi
	}
	return fmi
}

// PadEID normalizes the digits of an event identifier to four, keeping
// the E prefix ("E117" becomes "E0117").
func PadEID(eid string) string {
	if !strings.HasPrefix(eid, "E") {
		return eid
	}
	digits := eid[1:]
	for len(digits) < 4 {
		digits = "0" + digits
	}
	return "E" + digits
}
