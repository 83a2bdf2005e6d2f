package update

import "errors"

var ErrDeclined = errors.New("update declined")
