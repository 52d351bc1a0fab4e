package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	documentapp "github.com/lenses/backend/internal/application/document"
	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/adapter"
	"github.com/lenses/backend/internal/domain/shared"
	"github.com/lenses/backend/internal/infrastructure/printing"
	"github.com/lenses/backend/internal/interfaces/http/dto"
	"github.com/lenses/backend/internal/interfaces/http/middleware"
	"github.com/lenses/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testTenant = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// newTestEngine wires the handlers the way the server does. A nil renderer
// leaves PDF rendering disabled.
func newTestEngine(t *testing.T, repo *MockArtifactRepository, renderer printing.PDFRenderer, storage printing.PDFStorage) *gin.Engine {
	t.Helper()

	opts := []documentapp.Option{}
	if renderer != nil {
		opts = append(opts, documentapp.WithPDF(renderer, storage))
	}
	var artifactRepo document.ArtifactRepository
	if repo != nil {
		artifactRepo = repo
	}
	svc := documentapp.NewAssemblyService(adapter.NewRegistry(), artifactRepo, zap.NewNop(), opts...)

	engine, err := router.NewEngine(router.EngineConfig{MaxBodySize: 1 << 20})
	require.NoError(t, err)

	r := router.NewRouter(engine, router.WithMiddleware(middleware.Tenant(testTenant)))
	r.Register(DocumentRoutes(NewDocumentHandler(svc)))
	r.Register(ArtifactRoutes(NewArtifactHandler(svc)))
	r.Setup()
	return engine
}

func doJSON(engine http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestGetRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set(middleware.RequestIDKey, "header-id")
	assert.Equal(t, "header-id", getRequestID(c))

	c.Set(middleware.RequestIDKey, "ctx-id")
	assert.Equal(t, "ctx-id", getRequestID(c))
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode string
		status       int
	}{
		{"not found", shared.NewDomainError("NOT_FOUND", "Artifact not found"), dto.ErrCodeNotFound, http.StatusNotFound},
		{"wrapped invalid input", fmt.Errorf("assemble: %w", shared.NewDomainError("INVALID_INPUT", "bad")), dto.ErrCodeInvalidInput, http.StatusBadRequest},
		{"render timeout", shared.NewDomainError("RENDER_TIMEOUT", "slow"), dto.ErrCodeRenderTimeout, http.StatusGatewayTimeout},
		{"not configured", shared.NewDomainError("NOT_CONFIGURED", "off"), dto.ErrCodeNotConfigured, http.StatusServiceUnavailable},
		{"plain error", assert.AnError, dto.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDKey, "req-42")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.Equal(t, "req-42", resp.Error.RequestID)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		(&BaseHandler{}).HandleError(c, nil)
		assert.False(t, c.Writer.Written())
	})
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	(&BaseHandler{}).SuccessWithMeta(c, []string{"a"}, 45, 2, 20)

	resp := decode(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandler_MissingTenant(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := (&BaseHandler{}).tenant(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidTenant, decode(t, w).Error.Code)
}
