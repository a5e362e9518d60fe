package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inventra/internal/core/apperror"
	"inventra/internal/core/types"
)

func m(s string) types.Money { return types.MustMoney(s) }

func TestCheckDiscount(t *testing.T) {
	tests := []struct {
		name     string
		dtype    string
		value    string
		total    string
		wantCode string
	}{
		{"none skips", "none", "5000", "10", ""},
		{"empty skips", "", "5000", "10", ""},
		{"fixed within total", "FIXED", "100", "100", ""},
		{"fixed lower case", "fixed", "99.99", "100", ""},
		{"fixed above total", "FIXED", "100.01", "100", apperror.CodeInvalidDiscount},
		{"percentage bounds", "percentage", "100", "1", ""},
		{"percentage zero", "PERCENTAGE", "0", "1", ""},
		{"percentage above", "Percentage", "100.5", "1000", apperror.CodeInvalidDiscount},
		{"percentage negative", "PERCENTAGE", "-1", "1000", apperror.CodeInvalidDiscount},
		{"unknown type", "bogus", "1", "1", apperror.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDiscount(tt.dtype, m(tt.value), m(tt.total))
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestCheckDiscount_FixedReportsOnce(t *testing.T) {
	err := CheckDiscount("FIXED", m("150"), m("100"))
	assert.Len(t, apperror.Flatten(err), 1)
}
