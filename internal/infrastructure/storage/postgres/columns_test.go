package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inventra/internal/domain/ledger"
	"inventra/internal/domain/registers/stock"
)

type audited struct {
	CreatedBy string `db:"created_by"`
}

type withEmbedded struct {
	audited
	Number  string `db:"voucher_number"`
	Ignored string `db:"-"`
	NoTag   string
}

func TestExtractDBColumns(t *testing.T) {
	assert.Equal(t, []string{"product_id", "branch_id", "current_stock"}, ExtractDBColumns[stock.Level]())
	assert.Equal(t, []string{"id", "name", "credit_limit"}, ExtractDBColumns[ledger.Customer]())
	assert.Equal(t, []string{"created_by", "voucher_number"}, ExtractDBColumns[*withEmbedded]())
	assert.Nil(t, ExtractDBColumns[int]())
}
