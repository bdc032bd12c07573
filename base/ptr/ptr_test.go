package ptr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPtr(t *testing.T) {
	req := require.New(t)
	req.Equal("TON", *String("TON"))
	req.Equal(9, *Int(9))
	req.Equal(int32(-1), *Int32(-1))
	req.Equal(int64(1023), *Int64(1023))
	req.Equal(true, *Bool(true))
}
