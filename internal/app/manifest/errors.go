package manifest

import "errors"

var ErrManifestInvalid = errors.New("invalid install manifest")
var ErrDuplicatePackage = errors.New("duplicate package in manifest")
