package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCensored(t *testing.T) {
	req := require.New(t)

	data, err := LoadEmbeddedCensored()
	req.NoError(err)
	req.NotEmpty(data.Words)
	req.Contains(data.Languages, "en")
	req.Contains(data.Languages, "fr")
}
