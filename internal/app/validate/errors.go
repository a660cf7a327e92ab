package validate

import "errors"

var ErrSchemaPathRequired = errors.New("schema path is required")
var ErrValidationFailed = errors.New("validation failed")
var ErrInvalidJobs = errors.New("jobs must be at least 1")
