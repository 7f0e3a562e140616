package vis

import "errors"

// ErrUnknownVisualization is returned by the registry for unregistered names.
var ErrUnknownVisualization = errors.New("vis: unknown visualization")
