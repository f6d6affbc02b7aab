package sysinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumCPU(t *testing.T) {
	assert.GreaterOrEqual(t, NumCPU(), 1)
}

func TestExceedsAvailable(t *testing.T) {
	over, _ := ExceedsAvailable(0)
	assert.False(t, over)

	over, _ = ExceedsAvailable(1)
	assert.False(t, over)
}
