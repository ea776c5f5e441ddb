package handlers

import (
	"errors"
	"net/http"

	"github.com/aircasa/aircasa-api/services/properties"
	"github.com/aircasa/aircasa-api/utils"
	"go.uber.org/zap"
)

// HandleDataError maps data-access failures to HTTP responses. Every
// failure in the taxonomy surfaces as a 500 carrying only the safe
// summary text; upstream detail stays in the logs.
func HandleDataError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var de *properties.DataError
	if errors.As(err, &de) {
		logger.Error("property listing failed",
			zap.String("type", string(de.Type)),
			zap.String("summary", de.Message),
			zap.Error(de.Err))
	} else {
		logger.Error("property listing failed", zap.Error(err))
	}

	_ = utils.WriteInternalServerError(w, properties.Summary(err))
}
