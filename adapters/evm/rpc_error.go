package evm

import (
	"fmt"

	"github.com/layer-3/signa/core"
)

// CodeUserRejected is the EIP-1193 code for a request the user declined
const CodeUserRejected = 4001

// RPCError is a JSON-RPC error returned by the paired wallet
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Is makes user rejections match core.ErrUserRejected
func (e *RPCError) Is(target error) bool {
	return target == core.ErrUserRejected && e.Code == CodeUserRejected
}
