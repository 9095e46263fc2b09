package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccept(t *testing.T) {
	assert.NoError(t, Accept("application/pdf", 1024))
	assert.NoError(t, Accept("image/png", MaxSize))
	assert.ErrorIs(t, Accept("application/x-msdownload", 10), ErrUnsupportedType)
	assert.ErrorIs(t, Accept("application/pdf", MaxSize+1), ErrTooLarge)
}
