package echoo_errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotFoundClassIsUniform(t *testing.T) {
	for _, err := range []error{ErrRecipientNotFound, ErrInvalidParticipants, ErrChatNotFound} {
		wrapped := fmt.Errorf("dispatch: %w", err)
		require.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
		require.Equal(t, CodeNotFound, PublicCode(wrapped))
		require.Equal(t, "not found", PublicMessage(wrapped))
	}
}

func TestCollaboratorErrorsAreTransient(t *testing.T) {
	for _, err := range []error{ErrStoreUnavailable, ErrBlobUnavailable} {
		wrapped := fmt.Errorf("%w: connection reset", err)
		require.Equal(t, http.StatusServiceUnavailable, HTTPStatus(wrapped))
		require.Equal(t, CodeUnavailable, PublicCode(wrapped))
	}
}

func TestHandshakeErrorsAreUnauthorized(t *testing.T) {
	for _, err := range []error{ErrMissingCredential, ErrUnknownScheme, ErrInvalidToken} {
		require.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
		require.Equal(t, CodeUnauthorized, PublicCode(err))
	}
}

func TestUnknownErrorIsInternal(t *testing.T) {
	err := fmt.Errorf("boom")
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	require.Equal(t, CodeInternal, PublicCode(err))
	require.Equal(t, "internal error", PublicMessage(err))
}
