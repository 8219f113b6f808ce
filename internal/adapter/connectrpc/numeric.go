package connectrpc

import (
	"fmt"
	"math"

	"connectrpc.com/connect"
)

// checkInt32 rejects values the wire messages cannot carry in their int32 fields.
func checkInt32[T ~int | ~int64](name string, value T) error {
	if int64(value) > math.MaxInt32 || int64(value) < math.MinInt32 {
		return connect.NewError(connect.CodeInternal, fmt.Errorf("%s out of int32 range: %d", name, value))
	}
	return nil
}
