package controllers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edaraujo/secretaria/internal/app/models/dto"
	"github.com/edaraujo/secretaria/internal/app/services"
	"github.com/edaraujo/secretaria/internal/middleware"
	"github.com/edaraujo/secretaria/internal/pkg/filestorage"
)

// DocumentController handles document submission and review endpoints
type DocumentController struct {
	documentService *services.DocumentService
	storage         filestorage.ArtifactStorage
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService *services.DocumentService, storage filestorage.ArtifactStorage) *DocumentController {
	return &DocumentController{documentService: documentService, storage: storage}
}

// Submit accepts a multipart upload and files a PENDING document. The form
// carries ownerId, documentTypeId and the file itself.
func (dc *DocumentController) Submit(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	ownerID, err := strconv.ParseInt(c.PostForm("ownerId"), 10, 64)
	if err != nil || ownerID < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ownerId").WithField("ownerId")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	docTypeID, err := strconv.ParseInt(c.PostForm("documentTypeId"), 10, 64)
	if err != nil || docTypeID < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid documentTypeId").WithField("documentTypeId")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A file is required").WithField("file")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	ref, err := dc.storage.Put(data, "documents", filepath.Ext(fileHeader.Filename))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	doc, err := dc.documentService.Submit(c.Request.Context(), actor, services.SubmitDocumentInput{
		OwnerID:        ownerID,
		DocumentTypeID: docTypeID,
		ArtifactRef:    ref,
		FileName:       fileHeader.Filename,
		Size:           fileHeader.Size,
		MimeType:       fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		// The document row was never created; the stored artifact goes too.
		_ = dc.storage.Delete(ref)
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(doc))
}

// Review records a terminal decision on a pending document.
func (dc *DocumentController) Review(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	doc, err := dc.documentService.Review(c.Request.Context(), actor, id, req.Decision, req.Notes)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(doc))
}

// ListByOwner lists an owner's documents.
func (dc *DocumentController) ListByOwner(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	docs, err := dc.documentService.ListByOwner(c.Request.Context(), actor, ownerID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(docs))
}

// ListPending lists the review queue.
func (dc *DocumentController) ListPending(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	docs, err := dc.documentService.ListPending(c.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(docs))
}

// ListRequiredOutstanding lists the required document types a user has not
// had approved yet.
func (dc *DocumentController) ListRequiredOutstanding(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	missing, err := dc.documentService.FindRequiredOutstanding(c.Request.Context(), actor, userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(missing))
}
