package resolve

import "errors"

var ErrPackageNotFound = errors.New("package not found in registry")
var ErrNoRemoteHead = errors.New("remote advertises no refs")
var ErrNoCandidateVersions = errors.New("no installable versions published")
var ErrUnsupportedSource = errors.New("unsupported package source")
