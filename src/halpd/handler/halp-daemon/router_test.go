package halpdaemon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber/halpd/src/halpd/factory"
	"github.com/uber/halpd/src/halpd/mapper"
	"go.lsp.dev/jsonrpc2"
)

func TestHandleReq(t *testing.T) {
	ctx := context.Background()
	m := jsonRPCRouter{}

	request, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), "sampleMethod", []string{"val1", "val2"})
	err := m.HandleReq(ctx, newMockReplier(), request)
	assert.Error(t, err)
}

func TestHandleReqSetsConnUUID(t *testing.T) {
	id := factory.UUID()
	m := jsonRPCRouter{uuid: id}

	replier := func(ctx context.Context, result interface{}, err error) error {
		got, uuidErr := mapper.ContextToConnUUID(ctx)
		assert.NoError(t, uuidErr)
		assert.Equal(t, id, got)
		return err
	}

	request, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), MethodHealth, nil)
	assert.NoError(t, m.HandleReq(context.Background(), replier, request))
}

func TestUUID(t *testing.T) {
	sampleUUID := factory.UUID()
	m := jsonRPCRouter{uuid: sampleUUID}
	assert.Equal(t, sampleUUID, m.UUID())
}
