package photoio

import "errors"

// Sentinel kinds for photo loading errors.
var (
	ErrPhotoUnavailable = errors.New("photo file unavailable")
	ErrNotAnImage       = errors.New("file is not a decodable image")
)
