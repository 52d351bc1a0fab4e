// Package document implements the document assembly use cases: turning
// artifact records into section sequences, HTML previews and PDFs.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/adapter"
	"github.com/lenses/backend/internal/domain/document/record"
	"github.com/lenses/backend/internal/domain/shared"
	"github.com/lenses/backend/internal/infrastructure/logger"
	"github.com/lenses/backend/internal/infrastructure/printing"
	"github.com/lenses/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/lenses/backend/internal/application/document"

// defaultBatchLimit bounds concurrent assemblies in AssembleBatch
const defaultBatchLimit = 4

// PageDefaults is the page layout used when a request does not override it
type PageDefaults struct {
	PaperSize   document.PaperSize
	Orientation document.Orientation
	Margins     document.Margins
}

// DefaultPageDefaults returns A4 portrait with the default margins
func DefaultPageDefaults() PageDefaults {
	return PageDefaults{
		PaperSize:   document.PaperSizeA4,
		Orientation: document.OrientationPortrait,
		Margins:     document.DefaultMargins(),
	}
}

// Option configures an AssemblyService
type Option func(*AssemblyService)

// WithPDF enables PDF generation. storage may be nil, in which case requests
// asking to store the PDF fail.
func WithPDF(renderer printing.PDFRenderer, storage printing.PDFStorage) Option {
	return func(s *AssemblyService) {
		s.pdfRenderer = renderer
		s.pdfStorage = storage
	}
}

// WithHTMLRenderer replaces the default HTML renderer
func WithHTMLRenderer(r *printing.HTMLRenderer) Option {
	return func(s *AssemblyService) {
		if r != nil {
			s.html = r
		}
	}
}

// WithTracer sets the tracer used for assembly spans
func WithTracer(t trace.Tracer) Option {
	return func(s *AssemblyService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithMetrics sets the document instruments
func WithMetrics(m *telemetry.DocumentMetrics) Option {
	return func(s *AssemblyService) {
		s.metrics = m
	}
}

// WithPageDefaults sets the page layout used for PDFs
func WithPageDefaults(p PageDefaults) Option {
	return func(s *AssemblyService) {
		s.page = p
	}
}

// WithBatchLimit bounds the number of records assembled concurrently
func WithBatchLimit(n int) Option {
	return func(s *AssemblyService) {
		if n > 0 {
			s.batchLimit = n
		}
	}
}

// ArtifactCache stores the loaded records of stored artifacts
type ArtifactCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// WithCache caches the records of stored artifacts for ttl. Sections are
// still assembled on every request.
func WithCache(c ArtifactCache, ttl time.Duration) Option {
	return func(s *AssemblyService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// AssemblyService handles document assembly operations
type AssemblyService struct {
	registry    *adapter.Registry
	repo        document.ArtifactRepository
	html        *printing.HTMLRenderer
	pdfRenderer printing.PDFRenderer
	pdfStorage  printing.PDFStorage
	tracer      trace.Tracer
	metrics     *telemetry.DocumentMetrics
	page        PageDefaults
	batchLimit  int
	cache       ArtifactCache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewAssemblyService creates a new AssemblyService. repo may be nil when only
// ad-hoc records are assembled.
func NewAssemblyService(
	registry *adapter.Registry,
	repo document.ArtifactRepository,
	zapLogger *zap.Logger,
	opts ...Option,
) *AssemblyService {
	if registry == nil {
		registry = adapter.NewRegistry()
	}
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	s := &AssemblyService{
		registry:   registry,
		repo:       repo,
		html:       printing.NewHTMLRenderer(),
		tracer:     otel.Tracer(tracerName),
		page:       DefaultPageDefaults(),
		batchLimit: defaultBatchLimit,
		logger:     zapLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// Assembly Operations
// =============================================================================

// ArtifactTypes returns the artifact types that have an adapter
func (s *AssemblyService) ArtifactTypes() []ArtifactTypeResponse {
	types := s.registry.Types()
	result := make([]ArtifactTypeResponse, len(types))
	for i, t := range types {
		result[i] = ArtifactTypeResponse{Code: string(t), DisplayName: t.DisplayName()}
	}
	return result
}

// Assemble turns an ad-hoc record into its section sequence
func (s *AssemblyService) Assemble(ctx context.Context, req AssembleRequest) (*AssembleResponse, error) {
	t, err := s.resolveType(req.ArtifactType)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, t, record.Record(req.Record), req.Title)
}

// AssembleArtifact loads a stored artifact and assembles its payload
func (s *AssemblyService) AssembleArtifact(ctx context.Context, tenantID, artifactID uuid.UUID) (*AssembleResponse, error) {
	loaded, err := s.loadArtifact(ctx, tenantID, artifactID)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, loaded.Type, loaded.Payload, loaded.Title)
}

// Preview assembles a record and renders it to HTML
func (s *AssemblyService) Preview(ctx context.Context, req AssembleRequest) (*PreviewResponse, error) {
	doc, err := s.Assemble(ctx, req)
	if err != nil {
		return nil, err
	}
	html, err := s.html.Render(doc.Title, doc.Sections)
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}
	return &PreviewResponse{AssembleResponse: *doc, HTML: html}, nil
}

// AssembleBatch assembles many records concurrently. Results keep the input
// order; a record that fails carries its error instead of a document. Only
// cancellation of ctx fails the whole batch.
func (s *AssemblyService) AssembleBatch(ctx context.Context, reqs []AssembleRequest) ([]BatchResult, error) {
	results := make([]BatchResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)

	for i, req := range reqs {
		results[i].Index = i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := s.Assemble(gctx, req)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Document = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GeneratePDF assembles a record, renders it to PDF and optionally stores it
func (s *AssemblyService) GeneratePDF(ctx context.Context, tenantID uuid.UUID, req GeneratePDFRequest) (*PDFResponse, error) {
	doc, err := s.Assemble(ctx, req.AssembleRequest)
	if err != nil {
		return nil, err
	}
	return s.renderPDF(ctx, tenantID, uuid.New(), doc, req.PageOptions, req.Store)
}

// GenerateArtifactPDF renders a stored artifact to PDF. A stored PDF is keyed
// by the artifact ID, so storing again replaces it.
func (s *AssemblyService) GenerateArtifactPDF(ctx context.Context, tenantID, artifactID uuid.UUID, opts PageOptions, store bool) (*PDFResponse, error) {
	doc, err := s.AssembleArtifact(ctx, tenantID, artifactID)
	if err != nil {
		return nil, err
	}
	return s.renderPDF(ctx, tenantID, artifactID, doc, opts, store)
}

// =============================================================================
// Artifact Operations
// =============================================================================

// CreateArtifact stores a new artifact
func (s *AssemblyService) CreateArtifact(ctx context.Context, tenantID uuid.UUID, req CreateArtifactRequest) (*ArtifactResponse, error) {
	if err := s.requireRepo(); err != nil {
		return nil, err
	}
	t, err := s.resolveType(req.ArtifactType)
	if err != nil {
		return nil, err
	}

	artifact, err := document.NewArtifact(tenantID, t, req.Title, record.Record(req.Payload))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, artifact); err != nil {
		return nil, fmt.Errorf("failed to save artifact: %w", err)
	}

	logger.Enrich(ctx, s.logger).Info("artifact created",
		zap.String("id", artifact.ID.String()),
		zap.String("artifact_type", string(artifact.Type)))

	return toArtifactResponse(artifact), nil
}

// GetArtifact retrieves an artifact by ID
func (s *AssemblyService) GetArtifact(ctx context.Context, tenantID, artifactID uuid.UUID) (*ArtifactResponse, error) {
	artifact, err := s.findArtifact(ctx, tenantID, artifactID)
	if err != nil {
		return nil, err
	}
	return toArtifactResponse(artifact), nil
}

// ListArtifacts retrieves a paginated list of artifacts
func (s *AssemblyService) ListArtifacts(ctx context.Context, tenantID uuid.UUID, req ListArtifactsRequest) (*ListArtifactsResponse, error) {
	if err := s.requireRepo(); err != nil {
		return nil, err
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  map[string]any{},
	}.Normalize()

	if req.Type != "" {
		t, err := s.resolveType(req.Type)
		if err != nil {
			return nil, err
		}
		filter.Filters["type"] = string(t)
	}

	artifacts, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count artifacts: %w", err)
	}

	items := make([]ArtifactResponse, len(artifacts))
	for i := range artifacts {
		items[i] = *toArtifactResponse(&artifacts[i])
	}

	return &ListArtifactsResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.PageSize,
	}, nil
}

// DeleteArtifact deletes an artifact. A stored PDF of the artifact is left in place.
func (s *AssemblyService) DeleteArtifact(ctx context.Context, tenantID, artifactID uuid.UUID) error {
	if err := s.requireRepo(); err != nil {
		return err
	}
	if err := s.repo.DeleteForTenant(ctx, tenantID, artifactID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Artifact not found")
		}
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey(tenantID, artifactID)); err != nil {
			logger.Enrich(ctx, s.logger).Warn("failed to evict cached artifact", zap.Error(err))
		}
	}

	logger.Enrich(ctx, s.logger).Info("artifact deleted", zap.String("id", artifactID.String()))
	return nil
}

// =============================================================================
// Helper Functions
// =============================================================================

func (s *AssemblyService) assemble(ctx context.Context, t document.ArtifactType, rec record.Record, title string) (*AssembleResponse, error) {
	ctx, span := s.tracer.Start(ctx, "document.assemble",
		trace.WithAttributes(attribute.String("document.artifact_type", string(t))))
	defer span.End()

	log := logger.Enrich(ctx, s.logger)

	sections, err := s.registry.Assemble(t, rec)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.metrics.RecordAssembly(ctx, string(t), telemetry.OutcomeError, 0)
		if errors.Is(err, adapter.ErrNoAdapter) {
			return nil, shared.NewDomainErrorf("INVALID_INPUT", "Unsupported artifact type: %s", t)
		}
		return nil, err
	}
	if err := document.Validate(sections); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid section sequence")
		s.metrics.RecordAssembly(ctx, string(t), telemetry.OutcomeError, len(sections))
		log.Error("adapter produced an invalid document", zap.String("artifact_type", string(t)), zap.Error(err))
		return nil, fmt.Errorf("assemble %s: %w", t, err)
	}

	if t == document.ArtifactTypeInvoice {
		if totals := adapter.ComputeInvoiceTotals(rec); totals.SubtotalMismatch() {
			log.Debug("invoice subtotal disagrees with line items",
				zap.String("subtotal", totals.Subtotal.String()),
				zap.String("line_sum", totals.LineSum.String()))
		}
	}

	if title = strings.TrimSpace(title); title == "" {
		title = t.DisplayName()
	}

	span.SetAttributes(attribute.Int("document.sections", len(sections)))
	s.metrics.RecordAssembly(ctx, string(t), telemetry.OutcomeOK, len(sections))
	log.Debug("document assembled",
		zap.String("artifact_type", string(t)),
		zap.Int("sections", len(sections)))

	return &AssembleResponse{ArtifactType: string(t), Title: title, Sections: sections}, nil
}

func (s *AssemblyService) renderPDF(ctx context.Context, tenantID, documentID uuid.UUID, doc *AssembleResponse, opts PageOptions, store bool) (*PDFResponse, error) {
	if s.pdfRenderer == nil {
		return nil, shared.NewDomainError("RENDER_FAILED", "PDF rendering is not enabled")
	}
	if store && s.pdfStorage == nil {
		return nil, shared.NewDomainError("STORAGE_FAILED", "PDF storage is not configured")
	}

	page, err := s.pageSettings(opts)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "document.render_pdf",
		trace.WithAttributes(
			attribute.String("document.artifact_type", doc.ArtifactType),
			attribute.String("document.paper_size", string(page.PaperSize)),
		))
	defer span.End()

	log := logger.Enrich(ctx, s.logger)

	html, err := s.html.Render(doc.Title, doc.Sections)
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}

	start := time.Now()
	result, err := s.pdfRenderer.Render(ctx, &printing.RenderRequest{
		HTML:        html,
		PaperSize:   page.PaperSize,
		Orientation: page.Orientation,
		Margins:     page.Margins,
		Title:       doc.Title,
		FooterHTML:  printing.PageNumberFooter,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		s.metrics.RecordRender(ctx, doc.ArtifactType, telemetry.OutcomeError, time.Since(start), 0)
		log.Error("PDF rendering failed", zap.String("artifact_type", doc.ArtifactType), zap.Error(err))
		return nil, toDomainError(err, "failed to render PDF")
	}
	s.metrics.RecordRender(ctx, doc.ArtifactType, telemetry.OutcomeOK, result.RenderDuration, len(result.PDFData))

	resp := &PDFResponse{
		DocumentID:   documentID.String(),
		ArtifactType: doc.ArtifactType,
		Title:        doc.Title,
		Filename:     pdfFilename(doc.Title, documentID),
		PageCount:    result.PageCount,
		Size:         len(result.PDFData),
		RenderTime:   result.RenderDuration,
	}

	if !store {
		resp.Data = result.PDFData
		return resp, nil
	}

	stored, err := s.pdfStorage.Store(ctx, &printing.StoreRequest{
		TenantID:   tenantID,
		DocumentID: documentID,
		PDFData:    result.PDFData,
	})
	if err != nil {
		span.RecordError(err)
		log.Error("PDF storage failed", zap.String("document_id", documentID.String()), zap.Error(err))
		return nil, toDomainError(err, "failed to store PDF")
	}
	resp.StorageKey = stored.Key
	resp.URL = stored.URL

	log.Info("PDF generated",
		zap.String("document_id", documentID.String()),
		zap.String("artifact_type", doc.ArtifactType),
		zap.String("url", stored.URL))

	return resp, nil
}

// pageSettings merges request overrides into the configured defaults
func (s *AssemblyService) pageSettings(opts PageOptions) (PageDefaults, error) {
	page := s.page
	if opts.PaperSize != "" {
		page.PaperSize = document.PaperSize(strings.ToUpper(strings.TrimSpace(opts.PaperSize)))
		if !page.PaperSize.IsValid() {
			return PageDefaults{}, shared.NewDomainErrorf("INVALID_PAPER_SIZE", "Invalid paper size: %s", opts.PaperSize)
		}
	}
	if opts.Orientation != "" {
		page.Orientation = document.Orientation(strings.ToUpper(strings.TrimSpace(opts.Orientation)))
		if !page.Orientation.IsValid() {
			return PageDefaults{}, shared.NewDomainErrorf("INVALID_INPUT", "Invalid orientation: %s", opts.Orientation)
		}
	}
	if opts.Margins != nil {
		m, err := document.NewMargins(opts.Margins.Top, opts.Margins.Right, opts.Margins.Bottom, opts.Margins.Left)
		if err != nil {
			return PageDefaults{}, err
		}
		page.Margins = m
	}
	return page, nil
}

func (s *AssemblyService) resolveType(name string) (document.ArtifactType, error) {
	t, ok := document.ParseArtifactType(name)
	if !ok || !s.registry.Has(t) {
		return "", shared.NewDomainErrorf("INVALID_INPUT", "Unsupported artifact type: %s", name)
	}
	return t, nil
}

func (s *AssemblyService) findArtifact(ctx context.Context, tenantID, artifactID uuid.UUID) (*document.Artifact, error) {
	if err := s.requireRepo(); err != nil {
		return nil, err
	}
	artifact, err := s.repo.FindByIDForTenant(ctx, tenantID, artifactID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Artifact not found")
		}
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	return artifact, nil
}

func (s *AssemblyService) requireRepo() error {
	if s.repo == nil {
		return shared.NewDomainError("NOT_CONFIGURED", "Artifact storage is not configured")
	}
	return nil
}

// artifactRecord is what the cache keeps for a stored artifact
type artifactRecord struct {
	Type    document.ArtifactType `json:"type"`
	Title   string                `json:"title"`
	Payload record.Record         `json:"payload"`
}

// loadArtifact reads an artifact's record through the cache. Artifacts are
// immutable, so an entry stays valid until the artifact is deleted.
func (s *AssemblyService) loadArtifact(ctx context.Context, tenantID, artifactID uuid.UUID) (*artifactRecord, error) {
	key := cacheKey(tenantID, artifactID)
	if loaded, ok := s.cachedArtifact(ctx, key); ok {
		return loaded, nil
	}

	artifact, err := s.findArtifact(ctx, tenantID, artifactID)
	if err != nil {
		return nil, err
	}
	loaded := &artifactRecord{Type: artifact.Type, Title: artifact.DisplayTitle(), Payload: artifact.Payload}
	s.cacheArtifact(ctx, key, loaded)
	return loaded, nil
}

func cacheKey(tenantID, artifactID uuid.UUID) string {
	return tenantID.String() + ":" + artifactID.String()
}

// cachedArtifact treats cache failures as misses
func (s *AssemblyService) cachedArtifact(ctx context.Context, key string) (*artifactRecord, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("artifact cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var loaded artifactRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&loaded); err != nil {
		logger.Enrich(ctx, s.logger).Warn("discarding corrupt cached artifact", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	logger.Enrich(ctx, s.logger).Debug("artifact cache hit", zap.String("key", key))
	return &loaded, true
}

func (s *AssemblyService) cacheArtifact(ctx context.Context, key string, loaded *artifactRecord) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(loaded)
	if err == nil {
		err = s.cache.Set(ctx, key, data, s.cacheTTL)
	}
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("artifact cache write failed", zap.Error(err))
	}
}

// toDomainError turns a RenderError into a DomainError carrying its code
func toDomainError(err error, msg string) error {
	var renderErr *printing.RenderError
	if errors.As(err, &renderErr) {
		return shared.NewDomainError(renderErr.Code, renderErr.Message)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// pdfFilename derives a download file name from the document title
func pdfFilename(title string, id uuid.UUID) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "document"
	}
	return name + "-" + id.String()[:8] + ".pdf"
}
