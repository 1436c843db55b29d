package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_CleanString(t *testing.T) {
	assert.Equal(t, "ByteHub", CleanString("  ByteHub \n"))
	assert.Equal(t, "bytehub", CleanString("  ByteHub ", true))
	assert.Equal(t, "", CleanString("   "))
}

func Test_IsHexID(t *testing.T) {
	assert.True(t, IsHexID("64a1b2c3d4e5f60718293a4b"))
	assert.True(t, IsHexID("64A1B2C3D4E5F60718293A4B"))

	assert.False(t, IsHexID(""))
	assert.False(t, IsHexID("too-short"))
	assert.False(t, IsHexID("64a1b2c3d4e5f60718293a4"))    // 23 chars
	assert.False(t, IsHexID("64a1b2c3d4e5f60718293a4bc"))  // 25 chars
	assert.False(t, IsHexID("z4a1b2c3d4e5f60718293a4b"))   // non-hex rune
}