package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storenow/backoffice/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportFile serves a dataset as a downloadable file. The path segment
// is "<dataset>.<format>", e.g. orders.csv or products.xlsx.
func (s *Server) ExportFile(c *gin.Context) {
	file := strings.TrimSpace(c.Param("file"))

	dataset, formatName, ok := strings.Cut(file, ".")
	if !ok {
		AbortWithError(c, newValidationError("file", "invalid_request", "expected <dataset>.<format>"))
		return
	}

	var format export.Format
	var contentType string
	switch formatName {
	case "csv":
		format = export.FormatCSV
		contentType = "text/csv"
	case "xlsx":
		format = export.FormatXLSX
		contentType = xlsxContentType
	default:
		AbortWithError(c, newValidationError("file", "invalid_format", "supported formats: csv, xlsx"))
		return
	}

	ctx := c.Request.Context()
	var payload []byte
	var err error
	switch dataset {
	case "orders":
		payload, err = s.exportSvc.Orders(ctx, format)
	case "products":
		payload, err = s.exportSvc.Products(ctx, format)
	case "purchases":
		payload, err = s.exportSvc.Purchases(ctx, format)
	default:
		AbortWithError(c, newValidationError("file", "invalid_dataset", "supported datasets: orders, products, purchases"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
