package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenHint(t *testing.T) {
	f := tokenHint("3f1c9a7e-2b6d-4c1e-9f3a-5d8e7b6a4c21")
	assert.Equal(t, "token", f.Key)
	assert.Equal(t, "3f1c9a7e****", f.String)

	assert.Equal(t, "short", tokenHint("short").String)
}
