package autostart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegister_AppendsInOrder(t *testing.T) {
	before := len(All())

	Register(Descriptor{Name: "autostart-test-alpha", Entry: func(uint8, uintptr) {}})
	Register(Descriptor{Name: "autostart-test-beta", Entry: func(uint8, uintptr) {}})

	got := All()
	assert.Len(t, got, before+2)
	assert.Equal(t, "autostart-test-alpha", got[before].Name)
	assert.Equal(t, "autostart-test-beta", got[before+1].Name)
}

func TestAll_ReturnsACopyNotTheLiveSlice(t *testing.T) {
	Register(Descriptor{Name: "autostart-test-gamma", Entry: func(uint8, uintptr) {}})

	snapshot := All()
	snapshot[0] = Descriptor{Name: "mutated"}

	again := All()
	assert.NotEqual(t, "mutated", again[0].Name, "All must return an independent copy")
}
