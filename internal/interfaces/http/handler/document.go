package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	documentapp "github.com/lenses/backend/internal/application/document"
	"github.com/lenses/backend/internal/interfaces/http/router"
)

// DocumentHandler handles ad-hoc document assembly endpoints
type DocumentHandler struct {
	BaseHandler
	service *documentapp.AssemblyService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service *documentapp.AssemblyService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// BatchAssembleRequest represents a request to assemble several records at once
type BatchAssembleRequest struct {
	Items []documentapp.AssembleRequest `json:"items" binding:"required,min=1,max=100,dive"`
}

// DocumentRoutes creates the route group for document endpoints
func DocumentRoutes(h *DocumentHandler) *router.DomainGroup {
	group := router.NewDomainGroup("documents", "/documents")

	group.GET("/artifact-types", h.ListArtifactTypes)
	group.POST("/sections", h.Assemble)
	group.POST("/batch", h.AssembleBatch)
	group.POST("/preview", h.Preview)
	group.POST("/pdf", h.GeneratePDF)

	return group
}

// ListArtifactTypes godoc
//
//	@Summary		List artifact types
//	@Description	List the artifact types that can be assembled
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	dto.Response
//	@Router			/documents/artifact-types [get]
func (h *DocumentHandler) ListArtifactTypes(c *gin.Context) {
	h.Success(c, h.service.ArtifactTypes())
}

// Assemble godoc
//
//	@Summary		Assemble a record
//	@Description	Turn a domain record into its section sequence
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			request	body		documentapp.AssembleRequest	true	"Record to assemble"
//	@Success		200		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Router			/documents/sections [post]
func (h *DocumentHandler) Assemble(c *gin.Context) {
	var req documentapp.AssembleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.Assemble(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AssembleBatch godoc
//
//	@Summary		Assemble several records
//	@Description	Results keep the request order; a failing record carries its error
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			request	body		BatchAssembleRequest	true	"Records to assemble"
//	@Success		200		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Router			/documents/batch [post]
func (h *DocumentHandler) AssembleBatch(c *gin.Context) {
	var req BatchAssembleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	results, err := h.service.AssembleBatch(c.Request.Context(), req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// Preview godoc
//
//	@Summary		Preview a record as HTML
//	@Description	Assemble a record and render it to HTML. format=html returns the page itself.
//	@Tags			documents
//	@Accept			json
//	@Produce		json,html
//	@Param			request	body		documentapp.AssembleRequest	true	"Record to preview"
//	@Param			format	query		string						false	"json (default) or html"
//	@Success		200		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Router			/documents/preview [post]
func (h *DocumentHandler) Preview(c *gin.Context) {
	var req documentapp.AssembleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(result.HTML))
		return
	}
	h.Success(c, result)
}

// GeneratePDF godoc
//
//	@Summary		Render a record as PDF
//	@Description	Returns the PDF bytes, or the stored document's URL when store is true
//	@Tags			documents
//	@Accept			json
//	@Produce		application/pdf,json
//	@Param			request	body		documentapp.GeneratePDFRequest	true	"Record and page options"
//	@Success		200		{file}		binary
//	@Success		201		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Failure		502		{object}	dto.Response
//	@Failure		503		{object}	dto.Response
//	@Router			/documents/pdf [post]
func (h *DocumentHandler) GeneratePDF(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req documentapp.GeneratePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.GeneratePDF(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPDF(c, &h.BaseHandler, result)
}

// respondPDF writes the PDF itself, or its metadata when it was stored
func respondPDF(c *gin.Context, h *BaseHandler, result *documentapp.PDFResponse) {
	if result.Data == nil {
		h.Created(c, result)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("X-Document-ID", result.DocumentID)
	c.Header("X-Page-Count", strconv.Itoa(result.PageCount))
	c.Data(http.StatusOK, "application/pdf", result.Data)
}
