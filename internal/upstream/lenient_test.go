package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    string `json:"id"`
	Price Number `json:"price"`
}

func TestObject(t *testing.T) {
	var r row
	require.NoError(t, Object([]byte(`{"id":"a","price":"1.5"}`), &r))
	assert.Equal(t, row{ID: "a", Price: 1.5}, r)

	for _, in := range []string{`"n/a"`, `12`, `[1,2]`, `true`, ``, `{"id":7}`} {
		r = row{ID: "stale"}
		require.NoError(t, Object([]byte(in), &r), in)
		assert.Equal(t, row{}, r, in)
	}
}

func TestList_SkipsBadElements(t *testing.T) {
	out, err := List[row]([]byte(`[{"id":"a"}, "junk", {"id":5}, null, {"id":"b","price":"$2"}]`))
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: "a"}, {ID: "b", Price: 2}}, out)
}

func TestList_EmptyAndNonArray(t *testing.T) {
	out, err := List[row](nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = List[row]([]byte(` null `))
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = List[row]([]byte(`{"error":"rate limited"}`))
	assert.Error(t, err)
}
