package status

import (
	"fmt"
	"strings"

	"inventra/internal/core/apperror"
)

// Guard validates proposed status changes against a fixed transition table.
// It holds no mutable state and is safe for concurrent use.
type Guard struct {
	table         Table
	documentLabel string
}

// NewGuard creates a guard over DefaultTable.
// documentLabel names the document in messages, e.g. "إذن صرف".
func NewGuard(documentLabel string) *Guard {
	return NewGuardWithTable(documentLabel, DefaultTable())
}

// NewGuardWithTable creates a guard over a custom table.
func NewGuardWithTable(documentLabel string, table Table) *Guard {
	if documentLabel == "" {
		documentLabel = "المستند"
	}
	normalized := make(Table, len(table))
	for from, next := range table {
		targets := make([]Status, len(next))
		for i, s := range next {
			targets[i] = Normalize(s)
		}
		normalized[Normalize(from)] = targets
	}
	return &Guard{table: normalized, documentLabel: documentLabel}
}

// AllowedNext returns the statuses reachable from s in one step.
func (g *Guard) AllowedNext(s Status) []Status {
	next := g.table[Normalize(s)]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// Validate checks a change from current to proposed.
// A nil current means a new record and accepts any proposed status.
func (g *Guard) Validate(current *Status, proposed Status) error {
	if current == nil {
		return nil
	}

	from := Normalize(*current)
	to := Normalize(proposed)

	if from == to {
		return nil
	}

	if !g.table.Known(from) {
		return apperror.NewBusinessRule(
			apperror.CodeUnknownStatus,
			fmt.Sprintf("الحالة الحالية '%s' غير معروفة", from),
		).WithField("status").WithDetail("current", string(from))
	}

	if g.table.IsTerminal(from) {
		return apperror.NewBusinessRule(
			apperror.CodeTerminalState,
			g.terminalMessage(from),
		).WithField("status").
			WithDetail("current", string(from)).
			WithDetail("proposed", string(to))
	}

	if !g.table.Allows(from, to) {
		allowed := g.table[from]
		return apperror.NewBusinessRule(
			apperror.CodeInvalidTransition,
			invalidTransitionMessage(from, to, allowed),
		).WithField("status").
			WithDetail("current", string(from)).
			WithDetail("proposed", string(to)).
			WithDetail("allowed", statusStrings(allowed))
	}

	return nil
}

func (g *Guard) terminalMessage(s Status) string {
	switch s {
	case Cancelled:
		return fmt.Sprintf("لا يمكن تعديل %s بعد إلغائه", g.documentLabel)
	case Completed:
		return fmt.Sprintf("لا يمكن تعديل %s بعد اكتماله", g.documentLabel)
	default:
		return fmt.Sprintf("لا يمكن تغيير الحالة من '%s'", s)
	}
}

func invalidTransitionMessage(from, to Status, allowed []Status) string {
	labels := make([]string, len(allowed))
	for i, s := range allowed {
		labels[i] = s.Label()
	}
	return fmt.Sprintf(
		"لا يمكن تغيير الحالة من '%s' إلى '%s'. الحالات المسموحة: %s",
		from.Label(), to.Label(), strings.Join(labels, " أو "),
	)
}

func statusStrings(in []Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
