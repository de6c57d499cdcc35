package routes

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"home-rental-server/models"
	"home-rental-server/storage"
	"home-rental-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
)

// AdminCreateExport records an export job and processes it in the
// background. The client polls the job until it is done, then downloads
// the file.
func AdminCreateExport(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateExportInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !slices.Contains([]string{"listings", "property-requests", "users"}, input.Resource) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Resource must be listings, property-requests, or users", ctx)
		return
	}

	format := input.Format
	if format == "" {
		format = "csv"
	}
	if !slices.Contains([]string{"csv", "json"}, format) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Format must be csv or json", ctx)
		return
	}

	job := models.ExportJob{
		Resource:    input.Resource,
		Format:      format,
		Status:      models.ExportStatusPending,
		RequestedBy: claims.ID,
	}
	if err := storage.DB.Create(&job).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "export.create", "export_job", job.ID, nil, job)

	go processExport(job.ID)

	ctx.StatusCode(iris.StatusAccepted)
	ctx.JSON(job)
}

func AdminGetExport(ctx iris.Context) {
	jobID := ctx.Params().Get("id")

	var job models.ExportJob
	query := storage.DB.Where("id = ?", jobID).Limit(1).Find(&job)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(job)
}

func AdminDownloadExport(ctx iris.Context) {
	jobID := ctx.Params().Get("id")

	var job models.ExportJob
	query := storage.DB.Where("id = ?", jobID).Limit(1).Find(&job)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if job.Status != models.ExportStatusDone || job.FilePath == "" {
		utils.CreateError(iris.StatusConflict, "Conflict", "Export is not ready for download", ctx)
		return
	}

	filename := fmt.Sprintf("%s-%d.%s", job.Resource, job.ID, job.Format)
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	if err := ctx.SendFile(job.FilePath, filename); err != nil {
		utils.CreateInternalServerError(ctx)
	}
}

func processExport(jobID uint) {
	var job models.ExportJob
	if err := storage.DB.First(&job, jobID).Error; err != nil {
		log.Printf("export %d: load failed: %v", jobID, err)
		return
	}

	storage.DB.Model(&job).Update("status", models.ExportStatusProcessing)

	path, err := writeExportFile(&job)
	if err != nil {
		log.Printf("export %d: %v", jobID, err)
		storage.DB.Model(&job).Updates(map[string]interface{}{
			"status": models.ExportStatusFailed,
			"error":  err.Error(),
		})
		return
	}

	storage.DB.Model(&job).Updates(map[string]interface{}{
		"status":    models.ExportStatusDone,
		"file_path": path,
	})
}

func writeExportFile(job *models.ExportJob) (string, error) {
	dir := os.Getenv("EXPORT_DIR")
	if dir == "" {
		dir = "./exports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, utils.GenerateShortToken(16)+"."+job.Format)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	switch job.Resource {
	case "listings":
		var rows []models.Listing
		if err := storage.DB.Order("id ASC").Find(&rows).Error; err != nil {
			return "", err
		}
		if job.Format == "json" {
			return path, json.NewEncoder(f).Encode(rows)
		}
		return path, writeListingsCSV(f, rows)
	case "property-requests":
		var rows []models.PropertyRequest
		if err := storage.DB.Order("id ASC").Find(&rows).Error; err != nil {
			return "", err
		}
		if job.Format == "json" {
			return path, json.NewEncoder(f).Encode(rows)
		}
		return path, writePropertyRequestsCSV(f, rows)
	case "users":
		var rows []models.User
		if err := storage.DB.Order("id ASC").Find(&rows).Error; err != nil {
			return "", err
		}
		if job.Format == "json" {
			return path, json.NewEncoder(f).Encode(rows)
		}
		return path, writeUsersCSV(f, rows)
	}

	return "", fmt.Errorf("unknown export resource %q", job.Resource)
}

func writeListingsCSV(w io.Writer, rows []models.Listing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "title", "price", "property_type", "status", "verified", "lat", "lng", "owner_email", "created_at"}); err != nil {
		return err
	}
	for _, l := range rows {
		record := []string{
			strconv.FormatUint(uint64(l.ID), 10),
			l.Title,
			strconv.FormatFloat(l.Price, 'f', 2, 64),
			l.PropertyType,
			l.Status,
			strconv.FormatBool(l.Verified),
			strconv.FormatFloat(l.Lat, 'f', 6, 64),
			strconv.FormatFloat(l.Lng, 'f', 6, 64),
			l.OwnerEmail,
			l.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePropertyRequestsCSV(w io.Writer, rows []models.PropertyRequest) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "user_id", "listing_id", "status", "message", "response", "created_at"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			strconv.FormatUint(uint64(r.UserID), 10),
			strconv.FormatUint(uint64(r.ListingID), 10),
			r.Status,
			r.Message,
			r.Response,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeUsersCSV(w io.Writer, rows []models.User) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "email", "role", "created_at"}); err != nil {
		return err
	}
	for _, u := range rows {
		record := []string{
			strconv.FormatUint(uint64(u.ID), 10),
			u.Name,
			u.Email,
			u.Role,
			u.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type CreateExportInput struct {
	Resource string `json:"resource" validate:"required"`
	Format   string `json:"format"`
}
