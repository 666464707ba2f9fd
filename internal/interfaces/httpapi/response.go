package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/scout-core/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "scout-core"
	internalMessage  = "internal server error"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain       string `json:"domain"`
	Reason       string `json:"reason"`
	Message      string `json:"message"`
	Location     string `json:"location,omitempty"`
	LocationType string `json:"locationType,omitempty"`
}

type errorRule struct {
	target     error
	httpStatus int
	reason     string
	status     string
}

// errorRules maps usecase sentinels to HTTP and Google status codes; the
// first match wins and anything unmatched is an internal error.
var errorRules = []errorRule{
	{usecase.ErrInvalidInput, http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
	{usecase.ErrNotFound, http.StatusNotFound, "notFound", "NOT_FOUND"},
	{usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"},
	{usecase.ErrConflict, http.StatusConflict, "conflict", "ABORTED"},
	{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"},
}

var internalRule = errorRule{httpStatus: http.StatusInternalServerError, reason: "internalError", status: "INTERNAL"}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{APIVersion: googleAPIVersion, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	rule := matchErrorRule(err)
	if rule.httpStatus == http.StatusInternalServerError {
		writeInternalError(ctx, w)
		return
	}

	items := fieldErrorItems(rule, err)
	if len(items) == 0 {
		items = []googleErrorItem{{Domain: errorDomain, Reason: rule.reason, Message: err.Error()}}
	}
	writeErrorBody(ctx, w, rule, err.Error(), items)
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeErrorBody(ctx, w, internalRule, internalMessage, []googleErrorItem{
		{Domain: errorDomain, Reason: internalRule.reason, Message: internalMessage},
	})
}

func writeErrorBody(ctx context.Context, w http.ResponseWriter, rule errorRule, message string, items []googleErrorItem) {
	writeJSON(ctx, w, rule.httpStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    rule.httpStatus,
			Message: message,
			Status:  rule.status,
			Errors:  items,
		},
	})
}

func matchErrorRule(err error) errorRule {
	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			return rule
		}
	}
	return internalRule
}

// fieldErrorItems expands request validation failures into one item per
// offending field, located by its JSON path.
func fieldErrorItems(rule errorRule, err error) []googleErrorItem {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	items := make([]googleErrorItem, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		items = append(items, googleErrorItem{
			Domain:       errorDomain,
			Reason:       rule.reason,
			Message:      fe.Error(),
			Location:     fieldPath(fe),
			LocationType: "body",
		})
	}
	return items
}

// fieldPath drops the root struct name from the validator namespace, so
// "resolveIdentityRequest.name" becomes "name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	for i := 0; i < len(ns); i++ {
		if ns[i] == '.' {
			return ns[i+1:]
		}
	}
	return fe.Field()
}
