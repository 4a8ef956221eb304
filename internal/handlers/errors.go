package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/senyabanana/rfq-service/internal/models"
	"github.com/senyabanana/rfq-service/internal/utils"
)

// sendServiceError отправляет ошибку сервиса клиенту. Неизвестные ошибки скрываются за fallback.
func sendServiceError(w http.ResponseWriter, logger *log.Logger, err error, fallback string) {
	logger.Println(err)
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}
