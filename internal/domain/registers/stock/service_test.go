package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
)

type stockKey struct{ product, branch id.ID }

type fakeReader struct {
	levels map[stockKey]int64
	err    error
	calls  int
}

func (f *fakeReader) CurrentStock(_ context.Context, productID, branchID id.ID) (Level, error) {
	f.calls++
	if f.err != nil {
		return Level{}, f.err
	}
	qty, ok := f.levels[stockKey{productID, branchID}]
	if !ok {
		return Level{}, nil
	}
	return Level{ProductID: productID, BranchID: branchID, CurrentStock: qty}, nil
}

type fakeTx struct{ readOnly int }

func (f *fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	f.readOnly++
	return fn(ctx)
}

func TestEvaluate_FailsIffRequestedExceedsStock(t *testing.T) {
	for stock := int64(0); stock <= 5; stock++ {
		for requested := int64(0); requested <= 7; requested++ {
			err := Evaluate(Level{CurrentStock: stock}, requested)
			if requested > stock {
				assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock), "stock=%d requested=%d", stock, requested)
			} else {
				assert.NoError(t, err, "stock=%d requested=%d", stock, requested)
			}
		}
	}
}

func TestCheck_MissingRecordIsZero(t *testing.T) {
	c := NewChecker(&fakeReader{}, nil)
	productID, branchID := id.New(), id.New()

	assert.NoError(t, c.Check(context.Background(), productID, branchID, 0))

	err := c.Check(context.Background(), productID, branchID, 1)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, productID.String(), appErr.Details["product_id"])
	assert.Equal(t, int64(0), appErr.Details["available"])
	assert.Equal(t, int64(1), appErr.Details["shortage"])
}

func TestCheck_ReaderErrorIsNotAViolation(t *testing.T) {
	c := NewChecker(&fakeReader{err: errors.New("connection refused")}, nil)

	err := c.Check(context.Background(), id.New(), id.New(), 1)
	require.Error(t, err)
	assert.False(t, apperror.IsAppError(err))
}

func TestCheckDelta_OnlyIncreaseIsChecked(t *testing.T) {
	productID, branchID := id.New(), id.New()
	reader := &fakeReader{levels: map[stockKey]int64{{productID, branchID}: 3}}
	c := NewChecker(reader, nil)

	assert.NoError(t, c.CheckDelta(context.Background(), productID, branchID, 5, 10))
	assert.Zero(t, reader.calls, "decrease needs no lookup")
	assert.NoError(t, c.CheckDelta(context.Background(), productID, branchID, 13, 10))
	assert.Error(t, c.CheckDelta(context.Background(), productID, branchID, 14, 10))
}

func TestCheckItems_ReportsEveryShortage(t *testing.T) {
	branchID := id.New()
	p1, p2, p3 := id.New(), id.New(), id.New()
	reader := &fakeReader{levels: map[stockKey]int64{
		{p1, branchID}: 10,
		{p2, branchID}: 1,
	}}
	txm := &fakeTx{}
	c := NewChecker(reader, txm)

	err := c.CheckItems(context.Background(), branchID, []Item{
		{ProductID: &p1, Quantity: 4},
		{ProductID: &p1, Quantity: 7},
		{ProductID: &p2, Quantity: 2},
		{ProductID: &p3, Quantity: 0},
		{ProductID: nil, Quantity: 100},
	})

	violations := apperror.Flatten(err)
	require.Len(t, violations, 2)
	assert.Equal(t, p1.String(), violations[0].Details["product_id"])
	assert.Equal(t, int64(11), violations[0].Details["requested"])
	assert.Equal(t, p2.String(), violations[1].Details["product_id"])
	assert.Equal(t, 1, txm.readOnly)
	assert.Equal(t, 2, reader.calls)
}

func TestCheckItems_EmptyNeedsNoSnapshot(t *testing.T) {
	txm := &fakeTx{}
	c := NewChecker(&fakeReader{}, txm)

	assert.NoError(t, c.CheckItems(context.Background(), id.New(), nil))
	assert.Zero(t, txm.readOnly)
}

func TestCheckTransfer(t *testing.T) {
	source, target := id.New(), id.New()
	p := id.New()
	reader := &fakeReader{levels: map[stockKey]int64{{p, source}: 5}}
	c := NewChecker(reader, nil)
	items := []Item{{ProductID: &p, Quantity: 5}}

	t.Run("same branch", func(t *testing.T) {
		err := c.CheckTransfer(context.Background(), source, source, items)
		assert.True(t, apperror.HasCode(err, apperror.CodeSameBranchTransfer))
	})

	t.Run("enough at source", func(t *testing.T) {
		assert.NoError(t, c.CheckTransfer(context.Background(), source, target, items))
	})

	t.Run("checked against source not target", func(t *testing.T) {
		err := c.CheckTransfer(context.Background(), target, source, items)
		assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	})
}
