package api

import (
	"net/http"
	"testing"

	"SocialCore/tools/errs"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code int
		want int
	}{
		{errs.NotFoundError, http.StatusNotFound},
		{errs.PermissionDeniedError, http.StatusForbidden},
		{errs.PrivacyDeniedError, http.StatusForbidden},
		{errs.CommentingSuspendedError, http.StatusForbidden},
		{errs.PostingSuspendedError, http.StatusForbidden},
		{errs.ConflictError, http.StatusConflict},
		{errs.AlreadyFriendsError, http.StatusConflict},
		{errs.AlreadyRequestedError, http.StatusConflict},
		{errs.ValidationErrorCode, http.StatusBadRequest},
		{errs.TokenExpiredError, http.StatusUnauthorized},
		{errs.UploadFailureError, http.StatusBadGateway},
		{errs.ServerInternalError, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := httpStatus(c.code); got != c.want {
			t.Errorf("httpStatus(%d) = %d, want %d", c.code, got, c.want)
		}
	}
}
