// Package handlers implements the HTTP handlers for the catalog API.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fusionatlas/fusion-catalog/internal/application/query"
	"github.com/fusionatlas/fusion-catalog/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAppError maps application errors to HTTP responses by error code.
// Internal failures are masked; typed codes pass through with their message.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := errors.DefaultMessageForCode(code)
	if code == errors.CodeUnknown || code == errors.ErrCodeInternal {
		code = errors.ErrCodeInternal
		status = http.StatusInternalServerError
		message = errors.DefaultMessageForCode(errors.ErrCodeInternal)
	} else {
		var ae *errors.AppError
		if stderrors.As(err, &ae) && ae.Message != "" {
			message = ae.Message
		}
	}

	writeJSON(w, status, ErrorResponse{Code: code.String(), Message: message})
}

// writeBadRequest writes a 400 with the given message.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    errors.ErrCodeBadRequest.String(),
		Message: message,
	})
}

// parsePredicates extracts the filter predicates from query parameters.
// Repeated parameters accumulate into the categorical sets; min_funding_musd
// is expressed in millions of dollars.
func parsePredicates(r *http.Request) (query.PredicateSet, error) {
	q := r.URL.Query()
	p := query.PredicateSet{
		FuelSources: splitMulti(q["fuel_source"]),
		Approaches:  splitMulti(q["approach"]),
		SearchTerm:  q.Get("q"),
	}

	if v := q.Get("min_funding_musd"); v != "" {
		musd, err := strconv.ParseFloat(v, 64)
		if err != nil || musd < 0 {
			return query.PredicateSet{}, errors.Newf(errors.ErrCodeBadRequest,
				"min_funding_musd must be a non-negative number, got %q", v)
		}
		p.MinFundingUSD = musd * 1e6
	}
	return p, nil
}

// splitMulti flattens repeated parameters and comma-separated lists into one
// value set.
func splitMulti(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
