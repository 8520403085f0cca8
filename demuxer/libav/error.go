package libav

import (
	"errors"
)

var ErrOpenEmptyURL = errors.New("the provided URL is empty")
