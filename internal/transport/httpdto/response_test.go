package httpdto

import (
	"errors"
	"fmt"
	"testing"

	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"github.com/stretchr/testify/require"
)

func TestErrorResponseFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Response[any]
	}{
		{"not a contact", echoo_errors.ErrRecipientNotFound, Response[any]{Error: "not found", Code: echoo_errors.CodeNotFound}},
		{"blob store off", fmt.Errorf("%w: group images are disabled", echoo_errors.ErrBlobUnavailable),
			Response[any]{Error: "service temporarily unavailable", Code: echoo_errors.CodeUnavailable}},
		{"unexpected", errors.New("mongo: auth failed for admin:secret"), Response[any]{Error: "internal error", Code: echoo_errors.CodeInternal}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ErrorResponseFor(tt.err))
		})
	}
}
