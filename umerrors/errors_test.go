package umerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorParts(t *testing.T) {
	wrapped := fmt.Errorf("pc=12 op=DIV: %w", ErrADivideByZero)

	assert.True(t, errors.Is(wrapped, ErrADivideByZero))
	assert.Equal(t, "A1", GetErrorCode(wrapped))
	assert.Equal(t, "DivideByZero", GetErrorName(wrapped))
	assert.Equal(t, "A1_DivideByZero", GetErrorCodeWithName(wrapped))
	assert.Equal(t, "Division by a zero register.", GetErrorDesc(wrapped))
}

func TestErrorPartsPlain(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, "boom", GetErrorName(plain))
	assert.Equal(t, "", GetErrorCode(plain))
	assert.Equal(t, "", GetErrorCodeWithName(plain))
	assert.Equal(t, "No Error", GetErrorName(nil))
}
