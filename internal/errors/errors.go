package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if stderrors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	var fe *ForbiddenError
	if stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// ConflictError reports a lost race: the row changed between read and write.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	var de *DeadlockError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Business rule codes carried by RuleError.
const (
	CodeEmptyCart         = "EMPTY_CART"
	CodeMissingReason     = "MISSING_REASON"
	CodeInvalidState      = "INVALID_STATE"
	CodeInvalidTransition = "INVALID_TRANSITION"
)

// RuleError is a business-rule rejection detected before any mutation.
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func IsRuleError(err error) (*RuleError, bool) {
	var re *RuleError
	if stderrors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// HasCode reports whether err is a RuleError with the given code.
func HasCode(err error, code string) bool {
	re, ok := IsRuleError(err)
	return ok && re.Code == code
}

func NewEmptyCartError() *RuleError {
	return &RuleError{Code: CodeEmptyCart, Message: "order must contain at least one product"}
}

func NewMissingReasonError() *RuleError {
	return &RuleError{Code: CodeMissingReason, Message: "cancellation reason is required"}
}

func NewInvalidStateError(message string) *RuleError {
	return &RuleError{Code: CodeInvalidState, Message: message}
}

func NewInvalidTransitionError(from, to string) *RuleError {
	return &RuleError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition order from %s to %s", from, to),
	}
}

type ProductNotFoundError struct {
	ProductIDs []string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("products not found: %s", strings.Join(e.ProductIDs, ", "))
}

func NewProductNotFoundError(ids ...string) *ProductNotFoundError {
	return &ProductNotFoundError{ProductIDs: ids}
}

func IsProductNotFoundError(err error) (*ProductNotFoundError, bool) {
	var pe *ProductNotFoundError
	if stderrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", name, e.Available, e.Requested)
}

func NewInsufficientStockError(productID, productName string, available, requested int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID:   productID,
		ProductName: productName,
		Available:   available,
		Requested:   requested,
	}
}

func IsInsufficientStockError(err error) (*InsufficientStockError, bool) {
	var ie *InsufficientStockError
	if stderrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

type TimeoutError struct {
	Message string
	Cause   error
}

func (e *TimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

func NewTimeoutError(message string, cause error) *TimeoutError {
	return &TimeoutError{Message: message, Cause: cause}
}

func IsTimeoutError(err error) (*TimeoutError, bool) {
	var te *TimeoutError
	if stderrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

type StorageUnavailableError struct {
	Message string
	Cause   error
}

func (e *StorageUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Cause
}

func NewStorageUnavailableError(message string, cause error) *StorageUnavailableError {
	return &StorageUnavailableError{Message: message, Cause: cause}
}

func IsStorageUnavailableError(err error) (*StorageUnavailableError, bool) {
	var se *StorageUnavailableError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
