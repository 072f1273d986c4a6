package httpadapter

import (
	"net/http"

	"github.com/kirillkom/voice-journal/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrPermissionDenied):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrRecordingNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrDeviceUnavailable),
		domain.IsKind(err, domain.ErrNoActiveRecording):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrUpload),
		domain.IsKind(err, domain.ErrSubmission),
		domain.IsKind(err, domain.ErrRemoteProcessing):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
