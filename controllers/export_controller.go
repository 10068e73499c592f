package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/services"
	"github.com/glucoquest/glucoquest/utils"
)

// ExportController serves health history downloads.
type ExportController struct {
	db     *gorm.DB
	export *services.ExportService
}

func NewExportController(db *gorm.DB, export *services.ExportService) *ExportController {
	return &ExportController{db: db, export: export}
}

// CSV streams the caller's full check history as a CSV attachment.
func (e *ExportController) CSV(ctx *gin.Context) {
	userID, _ := currentUserID(ctx)

	rows, err := e.export.Rows(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load health records")
		return
	}

	var buf bytes.Buffer
	if err := e.export.WriteCSV(&buf, rows); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to render export")
		return
	}

	filename := fmt.Sprintf("health_history_%s.csv", time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// PDF streams the caller's full check history as a PDF attachment.
func (e *ExportController) PDF(ctx *gin.Context) {
	userID, _ := currentUserID(ctx)

	username, _ := ctx.Get("username")
	name, _ := username.(string)

	rows, err := e.export.Rows(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load health records")
		return
	}

	var buf bytes.Buffer
	if err := e.export.WritePDF(&buf, name, rows); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to render export")
		return
	}

	filename := fmt.Sprintf("health_history_%s.pdf", time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
