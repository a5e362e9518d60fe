package voucher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
)

type record struct {
	id       id.ID
	number   string
	branchID id.ID
}

type fakeReader struct {
	vouchers []record
	err      error
}

func (f *fakeReader) VoucherBranches(_ context.Context, number string, excludeID *id.ID) ([]id.ID, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []id.ID
	for _, v := range f.vouchers {
		if excludeID != nil && v.id == *excludeID {
			continue
		}
		if v.number == number {
			out = append(out, v.branchID)
		}
	}
	return out, nil
}

func TestValidateNumberFormat(t *testing.T) {
	valid := []string{"RV-000001", "RV-123456"}
	invalid := []string{"RV-00001", "RV-0000001", "rv-000001", "RV000001", "RV-00000A", "", " RV-000001"}

	for _, n := range valid {
		assert.NoError(t, ValidateNumberFormat(n), n)
	}
	for _, n := range invalid {
		assert.True(t, apperror.HasCode(ValidateNumberFormat(n), apperror.CodeInvalidFormat), n)
	}
}

func TestCheckUnique(t *testing.T) {
	branch1, branch2 := id.New(), id.New()
	voucherID := id.New()
	c := NewChecker(&fakeReader{vouchers: []record{{id: voucherID, number: "RV-000001", branchID: branch2}}})
	ctx := context.Background()

	err := c.CheckUnique(ctx, "RV-000001", branch1, nil)
	assert.True(t, apperror.HasCode(err, apperror.CodeVoucherUsedInOtherBranch))

	err = c.CheckUnique(ctx, "RV-000001", branch2, nil)
	assert.True(t, apperror.HasCode(err, apperror.CodeVoucherUsedInSameBranch))

	assert.NoError(t, c.CheckUnique(ctx, "RV-000001", branch2, &voucherID))
	assert.NoError(t, c.CheckUnique(ctx, "RV-000002", branch1, nil))
}

func TestCheckUnique_MessagesDiffer(t *testing.T) {
	branch1, branch2 := id.New(), id.New()
	c := NewChecker(&fakeReader{vouchers: []record{{id: id.New(), number: "RV-000001", branchID: branch2}}})

	other, ok := apperror.AsAppError(c.CheckUnique(context.Background(), "RV-000001", branch1, nil))
	require.True(t, ok)
	same, ok := apperror.AsAppError(c.CheckUnique(context.Background(), "RV-000001", branch2, nil))
	require.True(t, ok)
	assert.NotEqual(t, other.Message, same.Message)
	assert.Equal(t, branch2.String(), other.Details["used_in_branch_id"])
}

func TestCheck_SameBranchWinsOverOther(t *testing.T) {
	branch1, branch2 := id.New(), id.New()
	c := NewChecker(&fakeReader{vouchers: []record{
		{id: id.New(), number: "RV-000009", branchID: branch2},
		{id: id.New(), number: "RV-000009", branchID: branch1},
	}})

	err := c.CheckUnique(context.Background(), "RV-000009", branch1, nil)
	assert.Equal(t, []string{apperror.CodeVoucherUsedInSameBranch}, apperror.Codes(err))
}

func TestCheck_ReportsFormatAndUniquenessTogether(t *testing.T) {
	branch1, branch2 := id.New(), id.New()
	c := NewChecker(&fakeReader{vouchers: []record{{id: id.New(), number: "RV-00001", branchID: branch2}}})

	err := c.Check(context.Background(), "RV-00001", branch1, nil)
	assert.Equal(t, []string{apperror.CodeInvalidFormat, apperror.CodeVoucherUsedInOtherBranch}, apperror.Codes(err))
}

func TestCheck_FormatFailsRegardlessOfUniqueness(t *testing.T) {
	c := NewChecker(&fakeReader{})
	err := c.Check(context.Background(), "RV-00001", id.New(), nil)
	assert.Equal(t, []string{apperror.CodeInvalidFormat}, apperror.Codes(err))
}

func TestCheck_Valid(t *testing.T) {
	c := NewChecker(&fakeReader{})
	assert.NoError(t, c.Check(context.Background(), " RV-000001 ", id.New(), nil))
}

func TestCheck_ReaderError(t *testing.T) {
	c := NewChecker(&fakeReader{err: errors.New("down")})
	err := c.Check(context.Background(), "RV-00001", id.New(), nil)
	require.Error(t, err)
	assert.False(t, apperror.IsAppError(err))
}
