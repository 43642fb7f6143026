package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Staff is a scheme member. Records are created once and never edited.
type Staff struct {
	ID               StaffID     `json:"id"`
	Name             string      `json:"name"`
	Address          string      `json:"address"`
	Designation      Designation `json:"designation"`
	OtherDesignation string      `json:"otherDesignation,omitempty"`
	JoinDate         time.Time   `json:"joinDate"`
	ContactNo        string      `json:"contactNo"`
}

// Title returns the designation as it should be printed, substituting the
// free-text value for Other.
func (s Staff) Title() string {
	if s.Designation == OtherDesignation && s.OtherDesignation != "" {
		return s.OtherDesignation
	}
	return string(s.Designation)
}

// UnmarshalJSON rejects records that AddStaff could never have produced: an
// unknown designation, or otherDesignation present or missing against the
// Other rule.
func (s *Staff) UnmarshalJSON(data []byte) error {
	type plain Staff
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if !p.Designation.Valid() {
		return fmt.Errorf("staff %s: unknown designation %q", p.ID, p.Designation)
	}
	hasOther := strings.TrimSpace(p.OtherDesignation) != ""
	if p.Designation == OtherDesignation && !hasOther {
		return fmt.Errorf("staff %s: otherDesignation required when designation is Other", p.ID)
	}
	if p.Designation != OtherDesignation && hasOther {
		return fmt.Errorf("staff %s: otherDesignation set on designation %q", p.ID, p.Designation)
	}
	*s = Staff(p)
	return nil
}

// NewStaff is the input to AddStaff. Field presence is checked by the caller.
type NewStaff struct {
	Name             string
	Address          string
	Designation      Designation
	OtherDesignation string
	JoinDate         time.Time
	ContactNo        string
}

func (in NewStaff) build(id StaffID) (Staff, error) {
	if !in.Designation.Valid() {
		return Staff{}, &ValidationError{Field: "designation", Reason: "unknown designation " + string(in.Designation)}
	}
	s := Staff{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Address:     strings.TrimSpace(in.Address),
		Designation: in.Designation,
		JoinDate:    in.JoinDate,
		ContactNo:   strings.TrimSpace(in.ContactNo),
	}
	// otherDesignation exists iff designation is Other.
	if in.Designation == OtherDesignation {
		s.OtherDesignation = strings.TrimSpace(in.OtherDesignation)
		if s.OtherDesignation == "" {
			return Staff{}, &ValidationError{Field: "otherDesignation", Reason: "required when designation is Other"}
		}
	}
	return s, nil
}

// matches reports whether the search term occurs in the name or id,
// ignoring case.
func (s Staff) matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), term) ||
		strings.Contains(strings.ToLower(string(s.ID)), term)
}
