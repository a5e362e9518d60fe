package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventra/internal/core/apperror"
)

var allStatuses = []Status{Pending, Approved, Completed, Cancelled}

func TestValidate_NewRecordAcceptsAnything(t *testing.T) {
	g := NewGuard("إذن صرف")
	for _, s := range append(allStatuses, "WHATEVER") {
		assert.NoError(t, g.Validate(nil, s), s)
	}
}

func TestValidate_SameStatusIsNoop(t *testing.T) {
	g := NewGuard("إذن صرف")
	for _, s := range allStatuses {
		assert.NoError(t, g.Validate(Ref(s), s), s)
	}
	assert.NoError(t, g.Validate(Ref("pending"), Pending), "comparison is case-insensitive")
	assert.NoError(t, g.Validate(Ref("cancelled"), " Cancelled "))
}

func TestValidate_AllowedEdges(t *testing.T) {
	g := NewGuard("إذن صرف")
	tests := []struct{ from, to Status }{
		{Pending, Approved},
		{Pending, Cancelled},
		{Approved, Completed},
		{Approved, Cancelled},
		{"approved", "completed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.NoError(t, g.Validate(Ref(tt.from), tt.to))
		})
	}
}

func TestValidate_TerminalStates(t *testing.T) {
	g := NewGuard("إذن صرف")
	for _, from := range []Status{Completed, Cancelled} {
		for _, to := range allStatuses {
			if to == from {
				continue
			}
			err := g.Validate(Ref(from), to)
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeTerminalState), "%s -> %s", from, to)
		}
	}
}

func TestValidate_TerminalMessageNamesDocument(t *testing.T) {
	g := NewGuard("إذن صرف")

	err := g.Validate(Ref(Cancelled), Pending)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "لا يمكن تعديل إذن صرف بعد إلغائه", appErr.Message)

	err = g.Validate(Ref(Completed), Pending)
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "لا يمكن تعديل إذن صرف بعد اكتماله", appErr.Message)
}

func TestValidate_EveryEdgeOutsideTableFails(t *testing.T) {
	g := NewGuard("")
	table := DefaultTable()
	for _, from := range []Status{Pending, Approved} {
		for _, to := range append(allStatuses, "ARCHIVED") {
			if from == to || table.Allows(from, to) {
				continue
			}
			err := g.Validate(Ref(from), to)
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidTransition), "%s -> %s", from, to)
		}
	}
}

func TestValidate_PendingToCompletedCarriesAllowed(t *testing.T) {
	g := NewGuard("إذن صرف")

	err := g.Validate(Ref(Pending), Completed)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
	assert.Equal(t, []string{"APPROVED", "CANCELLED"}, appErr.Details["allowed"])
	assert.Contains(t, appErr.Message, "معتمد أو ملغي")
}

func TestValidate_UnknownCurrent(t *testing.T) {
	g := NewGuard("إذن صرف")

	err := g.Validate(Ref("DRAFT"), Approved)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnknownStatus))

	err = g.Validate(Ref(""), Approved)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnknownStatus), "empty current is not the same as no current")
}

func TestNewGuardWithTable_AddingAStateIsData(t *testing.T) {
	table := DefaultTable()
	table["draft"] = []Status{"pending"}
	g := NewGuardWithTable("أمر شراء", table)

	assert.NoError(t, g.Validate(Ref("DRAFT"), Pending))
	assert.True(t, apperror.HasCode(g.Validate(Ref("DRAFT"), Approved), apperror.CodeInvalidTransition))
	assert.Equal(t, []Status{Pending}, g.AllowedNext("draft"))
}

func TestAllowedNext_ReturnsCopy(t *testing.T) {
	g := NewGuard("")
	next := g.AllowedNext(Pending)
	next[0] = Completed
	assert.Equal(t, []Status{Approved, Cancelled}, g.AllowedNext(Pending))
	assert.Empty(t, g.AllowedNext(Completed))
}
