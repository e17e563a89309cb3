package quota

import "errors"

// ErrLimitReached indicates the user has exhausted their RFQ allowance.
var ErrLimitReached = errors.New("rfq limit reached")
