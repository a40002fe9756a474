package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tdsa-academy/academy-service/internal/services"
	"github.com/tdsa-academy/academy-service/internal/utils"
)

type CertificateHandler struct {
	BaseHandler
	certificateService services.CertificateService
}

func NewCertificateHandler(certificateService services.CertificateService, logger utils.Logger) *CertificateHandler {
	return &CertificateHandler{
		BaseHandler:        NewBaseHandler(logger),
		certificateService: certificateService,
	}
}

type sendCertificateRequest struct {
	ResultID         string `json:"resultId" binding:"required"`
	CustomMentorName string `json:"customMentorName"`
}

// Send issues the certificate for a result and e-mails it to the student.
// A 207 means the number was assigned but the e-mail was not delivered.
func (h *CertificateHandler) Send(c *gin.Context) {
	var req sendCertificateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.certificateService.Send(c.Request.Context(), req.ResultID, req.CustomMentorName)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
