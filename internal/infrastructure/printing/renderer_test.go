package printing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lenses/backend/internal/domain/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRequest_Validate(t *testing.T) {
	t.Run("nil request", func(t *testing.T) {
		var req *RenderRequest
		code, _ := RenderErrorCode(req.validate())
		assert.Equal(t, ErrCodeInvalidHTML, code)
	})

	t.Run("blank html", func(t *testing.T) {
		code, _ := RenderErrorCode((&RenderRequest{HTML: "  \n"}).validate())
		assert.Equal(t, ErrCodeInvalidHTML, code)
	})

	t.Run("unknown paper size", func(t *testing.T) {
		code, _ := RenderErrorCode((&RenderRequest{HTML: "<p>x</p>", PaperSize: "B5"}).validate())
		assert.Equal(t, ErrCodeInvalidPaperSize, code)
	})

	t.Run("fills defaults", func(t *testing.T) {
		req := &RenderRequest{HTML: "<p>x</p>"}
		require.NoError(t, req.validate())
		assert.Equal(t, document.PaperSizeA4, req.PaperSize)
		assert.Equal(t, document.OrientationPortrait, req.Orientation)
	})
}

func TestRenderError(t *testing.T) {
	cause := errors.New("boom")
	err := NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", cause)

	assert.Equal(t, "chromedp execution failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "plain", NewRenderError(ErrCodeRenderFailed, "plain", nil).Error())

	_, ok := RenderErrorCode(cause)
	assert.False(t, ok)
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("<< /Type /Pages /Count 2 >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF-1.4")))
}

func TestBuildPrintParams(t *testing.T) {
	t.Run("A4 portrait", func(t *testing.T) {
		p := buildPrintParams(&RenderRequest{
			PaperSize:   document.PaperSizeA4,
			Orientation: document.OrientationPortrait,
			Margins:     document.DefaultMargins(),
		})
		assert.InDelta(t, 210/25.4, p.PaperWidth, 0.001)
		assert.InDelta(t, 297/25.4, p.PaperHeight, 0.001)
		assert.InDelta(t, 15/25.4, p.MarginTop, 0.001)
		assert.False(t, p.Landscape)
		assert.True(t, p.PrintBackground)
		assert.False(t, p.DisplayHeaderFooter)
	})

	t.Run("letter landscape", func(t *testing.T) {
		p := buildPrintParams(&RenderRequest{
			PaperSize:   document.PaperSizeLetter,
			Orientation: document.OrientationLandscape,
		})
		assert.InDelta(t, 216/25.4, p.PaperWidth, 0.001)
		assert.True(t, p.Landscape)
	})

	t.Run("footer reserves bottom margin", func(t *testing.T) {
		p := buildPrintParams(&RenderRequest{
			PaperSize:  document.PaperSizeA5,
			FooterHTML: PageNumberFooter,
		})
		assert.True(t, p.DisplayHeaderFooter)
		assert.Equal(t, PageNumberFooter, p.FooterTemplate)
		assert.InDelta(t, 10/25.4, p.MarginBottom, 0.001)
	})
}

func TestWrapDocument(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, wrapDocument(&RenderRequest{HTML: full}))

	wrapped := wrapDocument(&RenderRequest{HTML: "<p>x</p>", Title: "A & B"})
	assert.True(t, strings.HasPrefix(wrapped, "<!DOCTYPE html>"))
	assert.Contains(t, wrapped, "<title>A &amp; B</title>")
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}

func TestChromedpRenderer_RejectsBeforeLaunchingBrowser(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{})
	defer r.Close()

	_, err := r.Render(context.Background(), &RenderRequest{HTML: ""})
	code, ok := RenderErrorCode(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidHTML, code)
}
