package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/internal/domain/apperror"
	"github.com/oksasatya/docvault-api/pkg/response"
	"github.com/oksasatya/docvault-api/pkg/validation"
)

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindCapacity:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindAuth:
		return http.StatusUnauthorized
	case apperror.KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an error envelope. Storage and unclassified failures are
// logged and answered with fallback plus the cause.
func fail(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	kind := apperror.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error(fallback)
		}
		response.Error[any](c, status, apperror.Message(err, fallback), err.Error())
		return
	}
	response.Error[any](c, status, apperror.Message(err, fallback), nil)
}

func badPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
}
