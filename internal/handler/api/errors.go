package api

import (
	"errors"
	"fmt"

	"PatternScan/internal/domain/models"
	xhttp "PatternScan/pkg/http"
)

// toAppError maps the domain error taxonomy onto HTTP errors. Source failures
// keep their distinct messages so operators can tell them apart.
func toAppError(err error) *xhttp.AppError {
	var (
		te *models.TransportError
		he *models.HTTPError
		de *models.DecodeError
		ia *models.InvalidArgument
	)
	switch {
	case errors.As(err, &ia):
		return xhttp.InvalidArgumentError(ia.Field, ia.Error()).WithError(err)
	case errors.As(err, &te):
		return xhttp.BadGatewayError(xhttp.CodeSourceUnreachable, te.Error()).WithError(err)
	case errors.As(err, &he):
		return xhttp.BadGatewayError(xhttp.CodeSourceStatus, he.Error()).
			WithParam("status", he.Status).
			WithError(err)
	case errors.As(err, &de):
		return xhttp.BadGatewayError(xhttp.CodeSourceData, de.Error()).WithError(err)
	default:
		return xhttp.InternalError(fmt.Sprintf("unexpected error: %v", err)).WithError(err)
	}
}
