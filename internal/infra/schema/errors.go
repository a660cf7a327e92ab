package schema

import "errors"

var ErrUnknownDraft = errors.New("unknown schema draft")
