package ocr

import "errors"

// ErrNoText is returned when no text at all can be recognized in the image.
var ErrNoText = errors.New("no text recognized")
