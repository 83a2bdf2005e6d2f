package locate

import "errors"

var ErrNoHomeDir = errors.New("cannot determine home directory")
var ErrRootNotFound = errors.New("install root is not a directory")
