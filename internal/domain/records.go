package domain

// FaultCodeQuery is one parsed fault-code token. MID is optional; a
// query missing CID or FMI is unparsable and never sent to the store.
type FaultCodeQuery struct {
	MID string
	CID string
	FMI string
}

// Complete reports whether the query can be looked up.
func (q FaultCodeQuery) Complete() bool {
	return q.CID != "" && q.FMI != ""
}

// EventQuery is one parsed event token. EID carries its "E" prefix.
type EventQuery struct {
	EID   string
	Level string
}

// Complete reports whether the query can be looked up.
func (q EventQuery) Complete() bool {
	return q.EID != "" && q.Level != ""
}

// FaultCodeRecord is one row from the fault-code table.
type FaultCodeRecord struct {
	Raw         string `json:"raw,omitempty"`
	CID         string `json:"cid"`
	FMI         string `json:"fmi"`
	Description string `json:"description"`
	Causes      string `json:"causes"`
	URL         string `json:"url"`
}

// EventRecord is one row from the events table.
type EventRecord struct {
	Raw                string `json:"raw,omitempty"`
	EID                string `json:"eid"`
	Level              string `json:"level"`
	WarningDescription string `json:"warning_description"`
	URLMain            string `json:"url_main"`
}
