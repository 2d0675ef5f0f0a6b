package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/internal/application"
	"github.com/oksasatya/docvault-api/internal/domain/entity"
	"github.com/oksasatya/docvault-api/internal/interface/middleware"
	"github.com/oksasatya/docvault-api/pkg/response"
)

type DocumentHandler struct {
	Svc    *application.DocumentService
	Logger *logrus.Logger
	// MaxUploadBytes caps the attached file; zero means no cap.
	MaxUploadBytes int64
}

func NewDocumentHandler(svc *application.DocumentService, logger *logrus.Logger, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{Svc: svc, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.Svc.ListAll(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err, "Error fetching documents")
		return
	}
	response.Success(c, http.StatusOK, docs, "Documents", map[string]any{"count": len(docs)})
}

func (h *DocumentHandler) ListByVault(c *gin.Context) {
	docs, err := h.Svc.ListByVault(c.Request.Context(), c.Param("vaultId"))
	if err != nil {
		fail(c, h.Logger, err, "Server error while fetching documents")
		return
	}
	response.Success(c, http.StatusOK, docs, "Documents", map[string]any{"count": len(docs)})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	d, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err, "Error fetching document")
		return
	}
	response.Success(c, http.StatusOK, d, "Document", nil)
}

func (h *DocumentHandler) Search(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "Invalid payload", map[string]string{"size": "must be an integer"})
			return
		}
		size = n
	}
	docs, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err, "Error searching documents")
		return
	}
	response.Success(c, http.StatusOK, docs, "Documents", map[string]any{"count": len(docs)})
}

// Create takes multipart fields title, content, tags, metadata, vaultId and one file part.
// tags may be a comma-separated value or repeated fields.
func (h *DocumentHandler) Create(c *gin.Context) {
	in := application.CreateDocumentInput{
		UserID:   c.GetString(middleware.CtxUserID),
		VaultID:  c.PostForm("vaultId"),
		Title:    c.PostForm("title"),
		Content:  c.PostForm("content"),
		Metadata: c.PostForm("metadata"),
	}
	if tags := c.PostFormArray("tags"); len(tags) > 1 {
		in.Tags = entity.ListTags(tags)
	} else {
		in.Tags = entity.CSVTags(c.PostForm("tags"))
	}

	if fh, err := c.FormFile("file"); err == nil {
		if h.MaxUploadBytes > 0 && fh.Size > h.MaxUploadBytes {
			response.Error[any](c, http.StatusBadRequest, fmt.Sprintf("File exceeds %d bytes", h.MaxUploadBytes), nil)
			return
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, h.Logger, err, "Error uploading document")
			return
		}
		defer func() { _ = f.Close() }()
		in.File = &application.UploadedFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		}
	}

	d, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, h.Logger, err, "Error uploading document")
		return
	}
	response.Success(c, http.StatusCreated, d, "Document uploaded successfully", nil)
}

func (h *DocumentHandler) Update(c *gin.Context) {
	var upd entity.DocumentUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badPayload(c, err)
		return
	}
	d, err := h.Svc.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		fail(c, h.Logger, err, "Error updating document")
		return
	}
	response.Success(c, http.StatusOK, d, "Document updated successfully", nil)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err, "Error deleting document")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Document deleted successfully", nil)
}
