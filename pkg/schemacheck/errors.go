package schemacheck

import (
	"errors"

	"github.com/osvaldoandrade/schemacheck/internal/domain"
	"github.com/osvaldoandrade/schemacheck/internal/infra/schema"
)

var (
	ErrSchemaPathRequired = errors.New("schemacheck: schema path required")
	ErrUnknownDraft       = schema.ErrUnknownDraft
	ErrFileAccess         = domain.ErrFileAccess
	ErrMalformedJSON      = domain.ErrMalformedJSON
)
