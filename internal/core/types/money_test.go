package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "950.00", FormatMoney(MustMoney("950")))
	assert.Equal(t, "100.50", FormatMoney(MustMoney("100.5")))
	assert.Equal(t, "-3.10", FormatMoney(MustMoney("-3.1")))
}

func TestMustMoney_PanicsOnGarbage(t *testing.T) {
	assert.Panics(t, func() { MustMoney("abc") })
}
