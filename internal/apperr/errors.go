package apperr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation          Kind = "validation_error"
	KindAuthorization       Kind = "authorization_error"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindState               Kind = "state_error"
	KindCreditLimitExceeded Kind = "credit_limit_exceeded"
)

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindAuthorization:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict, KindState:
		return fiber.StatusConflict
	case KindCreditLimitExceeded:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// Error es un error de negocio; Details viaja tal cual en la respuesta JSON.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Forbidden(code, message string) *Error {
	return New(KindAuthorization, code, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

func State(code, message string) *Error {
	return New(KindState, code, message)
}

// As busca un *Error en la cadena (también detrás de errors.Wrap).
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

func HasCode(err error, code string) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// Códigos
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeForbidden           = "FORBIDDEN"
	CodeBranchScope         = "BRANCH_SCOPE"
	CodeCustomerNotFound    = "CUSTOMER_NOT_FOUND"
	CodeCustomerInactive    = "CUSTOMER_INACTIVE"
	CodeProductNotFound     = "PRODUCT_NOT_FOUND"
	CodeBranchNotFound      = "BRANCH_NOT_FOUND"
	CodeCategoryNotFound    = "CATEGORY_NOT_FOUND"
	CodeOrderNotFound       = "ORDER_NOT_FOUND"
	CodeNotOwnedByCustomer  = "NOT_OWNED_BY_CUSTOMER"
	CodeOrderAlreadySettled = "ORDER_ALREADY_SETTLED"
	CodeOrderCancelled      = "ORDER_CANCELLED"
	CodeNoOutstandingOrders = "NO_OUTSTANDING_ORDERS"
	CodeInvalidTransition   = "INVALID_STATUS_TRANSITION"
	CodeCreditLimitExceeded = "CREDIT_LIMIT_EXCEEDED"
	CodeClosingNotFound     = "CLOSING_NOT_FOUND"
	CodeClosingExists       = "CLOSING_ALREADY_EXISTS"
	CodeClosingCompleted    = "CLOSING_COMPLETED"
	CodeExpenseNotFound     = "EXPENSE_NOT_FOUND"
	CodeVirtualBranch       = "VIRTUAL_BRANCH"
)
