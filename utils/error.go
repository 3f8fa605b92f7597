package utils

import "errors"

var ErrorValidation = errors.New("validation failed")
