package handler

import (
	"github.com/gin-gonic/gin"
	documentapp "github.com/lenses/backend/internal/application/document"
	"github.com/lenses/backend/internal/interfaces/http/router"
)

// ArtifactHandler handles stored artifact endpoints
type ArtifactHandler struct {
	BaseHandler
	service *documentapp.AssemblyService
}

// NewArtifactHandler creates a new ArtifactHandler
func NewArtifactHandler(service *documentapp.AssemblyService) *ArtifactHandler {
	return &ArtifactHandler{service: service}
}

// ArtifactPDFQuery holds the query parameters of the artifact PDF endpoint
type ArtifactPDFQuery struct {
	PaperSize   string `form:"paper_size"`
	Orientation string `form:"orientation"`
	Store       bool   `form:"store"`
}

// ArtifactRoutes creates the route group for artifact endpoints
func ArtifactRoutes(h *ArtifactHandler) *router.DomainGroup {
	group := router.NewDomainGroup("artifacts", "/artifacts")

	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)
	group.DELETE("/:id", h.Delete)
	group.GET("/:id/sections", h.Sections)
	group.GET("/:id/pdf", h.PDF)

	return group
}

// Create godoc
//
//	@Summary		Store an artifact
//	@Tags			artifacts
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string								false	"Tenant ID"
//	@Param			request		body		documentapp.CreateArtifactRequest	true	"Artifact"
//	@Success		201			{object}	dto.Response
//	@Failure		400			{object}	dto.Response
//	@Router			/artifacts [post]
func (h *ArtifactHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req documentapp.CreateArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.CreateArtifact(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List godoc
//
//	@Summary		List artifacts
//	@Tags			artifacts
//	@Produce		json
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Param			order_by	query		string	false	"Sort field"
//	@Param			order_dir	query		string	false	"asc or desc"
//	@Param			search		query		string	false	"Title search"
//	@Param			type		query		string	false	"Artifact type"
//	@Success		200			{object}	dto.Response
//	@Router			/artifacts [get]
func (h *ArtifactHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req documentapp.ListArtifactsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.ListArtifacts(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// GetByID godoc
//
//	@Summary		Get an artifact
//	@Tags			artifacts
//	@Produce		json
//	@Param			id	path		string	true	"Artifact ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Router			/artifacts/{id} [get]
func (h *ArtifactHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.service.GetArtifact(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
//
//	@Summary		Delete an artifact
//	@Tags			artifacts
//	@Param			id	path	string	true	"Artifact ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	dto.Response
//	@Router			/artifacts/{id} [delete]
func (h *ArtifactHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteArtifact(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Sections godoc
//
//	@Summary		Assemble a stored artifact
//	@Tags			artifacts
//	@Produce		json
//	@Param			id	path		string	true	"Artifact ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Router			/artifacts/{id}/sections [get]
func (h *ArtifactHandler) Sections(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.service.AssembleArtifact(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// PDF godoc
//
//	@Summary		Render a stored artifact as PDF
//	@Tags			artifacts
//	@Produce		application/pdf,json
//	@Param			id			path		string	true	"Artifact ID"	format(uuid)
//	@Param			paper_size	query		string	false	"A4, A5, LETTER or LEGAL"
//	@Param			orientation	query		string	false	"PORTRAIT or LANDSCAPE"
//	@Param			store		query		bool	false	"Store the PDF and return its URL"
//	@Success		200			{file}		binary
//	@Success		201			{object}	dto.Response
//	@Failure		404			{object}	dto.Response
//	@Router			/artifacts/{id}/pdf [get]
func (h *ArtifactHandler) PDF(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var query ArtifactPDFQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	opts := documentapp.PageOptions{PaperSize: query.PaperSize, Orientation: query.Orientation}
	result, err := h.service.GenerateArtifactPDF(c.Request.Context(), tenantID, id, opts, query.Store)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPDF(c, &h.BaseHandler, result)
}
