package document

import (
	"time"

	"github.com/lenses/backend/internal/domain/document"
)

// =============================================================================
// Assembly DTOs
// =============================================================================

// AssembleRequest represents a request to assemble a record into sections
type AssembleRequest struct {
	ArtifactType string         `json:"artifact_type" binding:"required"`
	Record       map[string]any `json:"record" binding:"required"`
	Title        string         `json:"title" binding:"max=200"`
}

// AssembleResponse is an assembled document
type AssembleResponse struct {
	ArtifactType string             `json:"artifact_type"`
	Title        string             `json:"title"`
	Sections     []document.Section `json:"sections"`
}

// PreviewResponse is an assembled document together with its HTML rendering
type PreviewResponse struct {
	AssembleResponse
	HTML string `json:"html"`
}

// BatchResult is the outcome of one record in a batch assembly
type BatchResult struct {
	Index    int               `json:"index"`
	Document *AssembleResponse `json:"document,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// =============================================================================
// PDF DTOs
// =============================================================================

// MarginsDTO represents page margins in millimeters
type MarginsDTO struct {
	Top    int `json:"top" binding:"min=0,max=100"`
	Right  int `json:"right" binding:"min=0,max=100"`
	Bottom int `json:"bottom" binding:"min=0,max=100"`
	Left   int `json:"left" binding:"min=0,max=100"`
}

// PageOptions overrides the configured page layout; zero fields keep the default
type PageOptions struct {
	PaperSize   string      `json:"paper_size" form:"paper_size"`
	Orientation string      `json:"orientation" form:"orientation"`
	Margins     *MarginsDTO `json:"margins"`
}

// GeneratePDFRequest represents a request to render a record as PDF
type GeneratePDFRequest struct {
	AssembleRequest
	PageOptions
	// Store persists the PDF and returns its URL instead of the bytes
	Store bool `json:"store"`
}

// PDFResponse is a rendered PDF. Data is only set when the PDF was not stored.
type PDFResponse struct {
	DocumentID   string        `json:"document_id"`
	ArtifactType string        `json:"artifact_type"`
	Title        string        `json:"title"`
	Filename     string        `json:"filename"`
	PageCount    int           `json:"page_count"`
	Size         int           `json:"size"`
	RenderTime   time.Duration `json:"render_time_ns"`
	StorageKey   string        `json:"storage_key,omitempty"`
	URL          string        `json:"url,omitempty"`
	Data         []byte        `json:"-"`
}

// =============================================================================
// Artifact DTOs
// =============================================================================

// CreateArtifactRequest represents a request to store an artifact
type CreateArtifactRequest struct {
	ArtifactType string         `json:"artifact_type" binding:"required"`
	Title        string         `json:"title" binding:"max=200"`
	Payload      map[string]any `json:"payload" binding:"required"`
}

// ListArtifactsRequest represents a request to list artifacts
type ListArtifactsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
	Type     string `form:"type"`
}

// ArtifactResponse represents a stored artifact
type ArtifactResponse struct {
	ID           string         `json:"id"`
	TenantID     string         `json:"tenant_id"`
	ArtifactType string         `json:"artifact_type"`
	Title        string         `json:"title"`
	Payload      map[string]any `json:"payload"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ListArtifactsResponse represents a paginated list of artifacts
type ListArtifactsResponse struct {
	Items []ArtifactResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
}

// ArtifactTypeResponse describes a supported artifact type
type ArtifactTypeResponse struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

func toArtifactResponse(a *document.Artifact) *ArtifactResponse {
	return &ArtifactResponse{
		ID:           a.ID.String(),
		TenantID:     a.TenantID.String(),
		ArtifactType: string(a.Type),
		Title:        a.Title,
		Payload:      map[string]any(a.Payload),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
