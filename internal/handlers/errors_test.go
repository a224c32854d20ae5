package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: client x", apperrors.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: bad", apperrors.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: too many units", apperrors.ErrCapacityExceeded), http.StatusBadRequest},
		{fmt.Errorf("%w: low", apperrors.ErrInsufficientFunds), http.StatusConflict},
		{fmt.Errorf("%w: closed", apperrors.ErrInvalidState), http.StatusConflict},
		{fmt.Errorf("%w: dup", apperrors.ErrDuplicate), http.StatusConflict},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{apperrors.NewAppError(503, "db down", errors.New("dial")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForError(tt.err), tt.err.Error())
	}
}
