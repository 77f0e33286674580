package videoset

import "errors"

var ErrVideoSetNotFound = errors.New("video set not found")
