package factory

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/uber/halpd/src/halpd/entity"
	"go.lsp.dev/jsonrpc2"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// JSONRPCRequest is a user-defined factory for a JSON-RPC request containing the specified method and parameters.
func JSONRPCRequest(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), method, params)
	return req
}

// Session is a factory for a session owned by a fixed pid and cwd.
func Session() *entity.Session {
	return entity.NewSession(UUID(), 4242, "/home/dev/project", time.Now())
}

// Turns is a factory for an alternating user/assistant history containing n turns.
func Turns(n int) []entity.Turn {
	turns := make([]entity.Turn, 0, n)
	base := time.Now().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		role := entity.RoleUser
		if i%2 == 1 {
			role = entity.RoleAssistant
		}
		turns = append(turns, entity.Turn{
			Role:      role,
			Text:      fmt.Sprintf("turn %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return turns
}
