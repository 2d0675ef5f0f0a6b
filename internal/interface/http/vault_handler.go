package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/internal/application"
	"github.com/oksasatya/docvault-api/pkg/response"
)

type VaultHandler struct {
	Svc    *application.VaultService
	Logger *logrus.Logger
}

func NewVaultHandler(svc *application.VaultService, logger *logrus.Logger) *VaultHandler {
	return &VaultHandler{Svc: svc, Logger: logger}
}

// Field checks happen in the service so the messages stay the same for every caller.
type vaultRequest struct {
	UserID        string `json:"userId"`
	VaultName     string `json:"vaultName"`
	DocumentLimit int    `json:"documentLimit"`
}

type denyRequest struct {
	Reason string `json:"reason"`
}

type uploadURLRequest struct {
	DocumentURL string `json:"documentUrl"`
}

func (h *VaultHandler) Request(c *gin.Context) {
	var req vaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	v, err := h.Svc.RequestVault(c.Request.Context(), req.UserID, req.VaultName, req.DocumentLimit)
	if err != nil {
		fail(c, h.Logger, err, "Server error while requesting vault")
		return
	}
	response.Success(c, http.StatusCreated, v, "Vault request submitted successfully", nil)
}

func (h *VaultHandler) ListForUser(c *gin.Context) {
	vaults, err := h.Svc.ListVaultsForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, h.Logger, err, "Server error")
		return
	}
	response.Success(c, http.StatusOK, vaults, "Vaults", map[string]any{"count": len(vaults)})
}

func (h *VaultHandler) ListPending(c *gin.Context) {
	vaults, err := h.Svc.ListPendingRequests(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err, "Server error")
		return
	}
	response.Success(c, http.StatusOK, vaults, "Pending vault requests", map[string]any{"count": len(vaults)})
}

func (h *VaultHandler) Approve(c *gin.Context) {
	v, err := h.Svc.Approve(c.Request.Context(), c.Param("vaultId"))
	if err != nil {
		fail(c, h.Logger, err, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, v, "Vault approved successfully", nil)
}

// Deny accepts an empty body; the reason is then stored as "".
func (h *VaultHandler) Deny(c *gin.Context) {
	var req denyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badPayload(c, err)
		return
	}
	v, err := h.Svc.Deny(c.Request.Context(), c.Param("vaultId"), req.Reason)
	if err != nil {
		fail(c, h.Logger, err, "Server error")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reason": v.Reason, "vault": v}, "Vault request denied", nil)
}

func (h *VaultHandler) UploadURL(c *gin.Context) {
	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	v, err := h.Svc.UploadDocumentURL(c.Request.Context(), c.Param("vaultId"), req.DocumentURL)
	if err != nil {
		fail(c, h.Logger, err, "Server error")
		return
	}
	response.Success(c, http.StatusOK, v, "Document uploaded successfully!", nil)
}
