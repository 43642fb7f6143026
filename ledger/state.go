package ledger

import (
	"bytes"
	"encoding/json"
)

// State is the whole dataset: the roster and the log, in insertion order.
// It is the unit of persistence, export and import.
type State struct {
	Staff        []Staff       `json:"staff"`
	Transactions []Transaction `json:"transactions"`
}

// EmptyState is what a fresh installation starts with.
func EmptyState() State {
	return State{Staff: []Staff{}, Transactions: []Transaction{}}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	out := State{
		Staff:        make([]Staff, len(s.Staff)),
		Transactions: make([]Transaction, len(s.Transactions)),
	}
	copy(out.Staff, s.Staff)
	copy(out.Transactions, s.Transactions)
	return out
}

// EncodeState renders the state document, indented the way backups are
// written.
func EncodeState(s State) ([]byte, error) {
	if s.Staff == nil {
		s.Staff = []Staff{}
	}
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	return json.MarshalIndent(s, "", "  ")
}

// DecodeState parses a state document. Both top-level fields must be present;
// individual records must decode into a known variant. Any failure is a
// *ParseError.
func DecodeState(data []byte) (State, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return State{}, &ParseError{Reason: "invalid JSON", Err: err}
	}
	staffRaw, ok := top["staff"]
	if !ok || isNull(staffRaw) {
		return State{}, &ParseError{Reason: `missing "staff" field`}
	}
	txRaw, ok := top["transactions"]
	if !ok || isNull(txRaw) {
		return State{}, &ParseError{Reason: `missing "transactions" field`}
	}

	var s State
	if err := json.Unmarshal(staffRaw, &s.Staff); err != nil {
		return State{}, &ParseError{Reason: "invalid staff records", Err: err}
	}
	if err := json.Unmarshal(txRaw, &s.Transactions); err != nil {
		return State{}, &ParseError{Reason: "invalid transaction records", Err: err}
	}
	return s, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
