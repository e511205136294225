package side

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignAndOpposite(t *testing.T) {
	assert.Equal(t, 1, Bid.Sign())
	assert.Equal(t, -1, Ask.Sign())
	assert.Equal(t, Bid, Ask.Opposite())
	assert.Equal(t, Ask, Bid.Opposite())
}

func TestMarshalUnmarshalJSON(t *testing.T) {
	b, err := Bid.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"Bid"`, string(b))

	var s Side
	assert.NoError(t, s.UnmarshalJSON([]byte(`"Ask"`)))
	assert.Equal(t, Ask, s)

	assert.Error(t, s.UnmarshalJSON([]byte(`"Neither"`)))
}
