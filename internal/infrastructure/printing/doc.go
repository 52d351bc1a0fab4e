// Package printing turns assembled sections into HTML and PDF documents and
// stores the PDFs.
//
//	html, err := printing.NewHTMLRenderer().Render("Invoice", sections)
//	result, err := pdf.Render(ctx, &printing.RenderRequest{
//	    HTML:        html,
//	    PaperSize:   document.PaperSizeA4,
//	    Orientation: document.OrientationPortrait,
//	    Margins:     document.DefaultMargins(),
//	})
package printing
