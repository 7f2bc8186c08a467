package eventstream

import "errors"

// ErrNilEvent indicates a nil analysis event payload was provided to a publisher.
var ErrNilEvent = errors.New("nil analysis event")
