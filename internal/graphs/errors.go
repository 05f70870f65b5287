package graphs

import "errors"

var (
	ErrNoContainer         = errors.New("no mount point id given")
	ErrMountPointNotFound  = errors.New("mount point not found in host page")
	ErrUnknownRenderer     = errors.New("unknown renderer")
	ErrHostPageUnsupported = errors.New("renderer does not support a host page")
	ErrInvalidContainer    = errors.New("mount point id not usable by renderer")
)
