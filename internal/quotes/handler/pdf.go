package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"chanitec_backend/internal/pdf"
	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const (
	msgPDFGenerationFailed = "PDF generation failed"
	contentTypePDF         = "application/pdf"
)

// DownloadPDF handles GET /api/quotes/:id/pdf
// A confirmed quote is served from its archived copy when one exists;
// everything else is rendered from the current aggregate.
func (h *Handler) DownloadPDF(c *gin.Context) {
	agg, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	data := pdf.QuotePDFData{
		CompanyName: h.companyName,
		Quote:       agg,
		GeneratedAt: time.Now(),
	}

	if h.serveArchived(c, agg, data.Reference()) {
		return
	}

	doc, err := pdf.GenerateQuotePDF(data)
	if err != nil {
		_ = c.Error(err)
		httpkit.Error(c, http.StatusInternalServerError, msgPDFGenerationFailed, err.Error())
		return
	}

	servePDFBytes(c, data.Reference(), doc)
}

// serveArchived streams the archived PDF. A missing object falls back to rendering.
func (h *Handler) serveArchived(c *gin.Context, agg transport.QuoteAggregate, reference string) bool {
	if h.archive == nil || !agg.Confirmed {
		return false
	}
	reader, err := h.archive.DownloadFile(c.Request.Context(), h.pdfBucket, pdf.ArchiveKey(agg.ID))
	if err != nil {
		_ = c.Error(err)
		return false
	}
	streamPDFFromReader(c, reference, reader)
	return true
}

func servePDFBytes(c *gin.Context, reference string, doc []byte) {
	setPDFHeaders(c, reference)
	c.Header("Content-Length", strconv.Itoa(len(doc)))
	c.Data(http.StatusOK, contentTypePDF, doc)
}

func streamPDFFromReader(c *gin.Context, reference string, reader io.ReadCloser) {
	defer func() { _ = reader.Close() }()

	setPDFHeaders(c, reference)
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, reader); err != nil {
		_ = c.Error(err)
	}
}

func setPDFHeaders(c *gin.Context, reference string) {
	c.Header("Content-Type", contentTypePDF)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", "devis-"+reference+".pdf"))
}
