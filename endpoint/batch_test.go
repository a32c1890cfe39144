package endpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/restbind/request"
)

func TestCallAll(t *testing.T) {
	conn := newFakeConn()
	conn.body = []byte(`"ok"`)
	get := Bind(conn, Must(NewDefinition(request.MethodGet, "/item/{id}")))

	calls := make([]Call, 0, 25)
	for i := range 25 {
		calls = append(calls, Call{Endpoint: get, Args: Positional(i)})
	}
	// one bad call must not affect the others
	calls = append(calls, Call{Endpoint: get, Args: Positional(1, 2)})

	results := CallAll(context.Background(), 4, calls)
	require.Len(t, results, 26)

	for i := range 25 {
		assert.NoError(t, results[i].Err)
		assert.Equal(t, "ok", results[i].Value)
	}
	assert.ErrorIs(t, results[25].Err, ErrArgumentCount)
	assert.Len(t, conn.sent, 25)
}

func TestCallAll_Empty(t *testing.T) {
	assert.Empty(t, CallAll(context.Background(), 0, nil))
}
