package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestNotFoundError_ErrorInterface(t *testing.T) {
	var err error = NewNotFoundError("entity not found")
	assert.NotNil(t, err)
	assert.Equal(t, "entity not found", err.Error())
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "email", Message: "invalid email"},
		{Field: "name", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading order: %w", NewNotFoundError("order o-1 not found"))

	nfe, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "order o-1 not found", nfe.Message)
}

func TestRuleError_Codes(t *testing.T) {
	assert.True(t, HasCode(NewEmptyCartError(), CodeEmptyCart))
	assert.True(t, HasCode(NewMissingReasonError(), CodeMissingReason))
	assert.True(t, HasCode(NewInvalidStateError("order is not cancelled"), CodeInvalidState))
	assert.False(t, HasCode(NewEmptyCartError(), CodeMissingReason))
	assert.False(t, HasCode(errors.New("plain"), CodeEmptyCart))

	err := NewInvalidTransitionError("pending", "delivered")
	assert.True(t, HasCode(err, CodeInvalidTransition))
	assert.Equal(t, "cannot transition order from pending to delivered", err.Error())
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := NewInsufficientStockError("q-1", "Heirloom tomatoes", 5, 10)

	assert.Equal(t, "insufficient stock for Heirloom tomatoes: 5 available, 10 requested", err.Error())

	ise, ok := IsInsufficientStockError(fmt.Errorf("reserving: %w", err))
	assert.True(t, ok)
	assert.Equal(t, 5, ise.Available)
	assert.Equal(t, 10, ise.Requested)
}

func TestInsufficientStockError_FallsBackToID(t *testing.T) {
	err := NewInsufficientStockError("q-1", "", 0, 3)
	assert.Contains(t, err.Error(), "q-1")
}

func TestProductNotFoundError_ListsIDs(t *testing.T) {
	err := NewProductNotFoundError("p-1", "p-9")

	assert.Equal(t, "products not found: p-1, p-9", err.Error())
	pe, ok := IsProductNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, []string{"p-1", "p-9"}, pe.ProductIDs)
}

func TestTimeoutAndStorageErrors_Unwrap(t *testing.T) {
	cause := errors.New("i/o timeout")

	te := NewTimeoutError("store operation timed out", cause)
	assert.True(t, errors.Is(te, cause))
	_, ok := IsTimeoutError(fmt.Errorf("wrap: %w", te))
	assert.True(t, ok)

	se := NewStorageUnavailableError("store unreachable", cause)
	assert.True(t, errors.Is(se, cause))
	_, ok = IsStorageUnavailableError(se)
	assert.True(t, ok)
	_, ok = IsTimeoutError(se)
	assert.False(t, ok)
}

func TestForbiddenConflictDeadlock(t *testing.T) {
	_, ok := IsForbiddenError(NewForbiddenError("not your order"))
	assert.True(t, ok)
	_, ok = IsConflictError(NewConflictError("order changed concurrently"))
	assert.True(t, ok)
	_, ok = IsDeadlockError(NewDeadlockError("max retries exceeded"))
	assert.True(t, ok)
}
