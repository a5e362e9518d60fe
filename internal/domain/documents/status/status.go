// Package status provides the document status lifecycle shared by issue vouchers,
// return vouchers and purchase orders, and the guard that validates status changes.
package status

import "strings"

// Status is a document lifecycle state.
type Status string

const (
	Pending   Status = "PENDING"
	Approved  Status = "APPROVED"
	Completed Status = "COMPLETED"
	Cancelled Status = "CANCELLED"
)

// Normalize trims and upper-cases a status so "approved" and "APPROVED" compare equal.
func Normalize(s Status) Status {
	return Status(strings.ToUpper(strings.TrimSpace(string(s))))
}

// Ref returns a pointer to s, for the current-status argument of Guard.Validate.
func Ref(s Status) *Status {
	return &s
}

// Label returns the Arabic display name of a status.
func (s Status) Label() string {
	switch s {
	case Pending:
		return "قيد الانتظار"
	case Approved:
		return "معتمد"
	case Completed:
		return "مكتمل"
	case Cancelled:
		return "ملغي"
	default:
		return string(s)
	}
}

// Table maps each status to the statuses it may move to.
// A status mapped to an empty list is terminal.
type Table map[Status][]Status

// DefaultTable is the voucher and purchase order lifecycle.
func DefaultTable() Table {
	return Table{
		Pending:   {Approved, Cancelled},
		Approved:  {Completed, Cancelled},
		Completed: {},
		Cancelled: {},
	}
}

// Known reports whether s is a state of the table.
func (t Table) Known(s Status) bool {
	_, ok := t[s]
	return ok
}

// IsTerminal reports whether s is known and has no outgoing transitions.
func (t Table) IsTerminal(s Status) bool {
	next, ok := t[s]
	return ok && len(next) == 0
}

// Allows reports whether the edge from -> to exists.
func (t Table) Allows(from, to Status) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}
