package codes

import (
	"errors"
	"net/http"

	"creditmarket/core"
)

const (
	// InvalidArguments malformed request
	InvalidArguments = 100001
	// Unauthorized missing or invalid access token
	Unauthorized = 401
	// Internal anything not a ledger error code
	Internal = 500
)

// Get numeric code of err
func Get(err error) int {
	var code core.ErrorCode
	if errors.As(err, &code) {
		return int(code)
	}

	return Internal
}

// HTTPStatus http status for err, ledger codes by category
func HTTPStatus(err error) int {
	var code core.ErrorCode
	if !errors.As(err, &code) {
		return http.StatusInternalServerError
	}

	switch code.Category() {
	case "validation", "arithmetic":
		return http.StatusBadRequest
	case "precondition":
		if code == core.ErrMarketNotCreated || code == core.ErrRateModelNotFound || code == core.ErrOracleNotFound {
			return http.StatusNotFound
		}
		return http.StatusConflict
	case "solvency":
		return http.StatusUnprocessableEntity
	case "authorization":
		if code == core.ErrReentrancy {
			return http.StatusConflict
		}
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
