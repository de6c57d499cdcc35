package routes

import (
	"strings"

	"home-rental-server/models"
	"home-rental-server/storage"
	"home-rental-server/utils"

	"github.com/kataras/iris/v12"
)

// AdminListUsers returns a paginated user directory with optional name or
// email search and role filter.
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := storage.DB.Model(&models.User{})
	if text := strings.TrimSpace(ctx.URLParam("q")); text != "" {
		like := "%" + strings.ToLower(text) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(email) LIKE ?", like, like)
	}
	if role := strings.TrimSpace(ctx.URLParam("role")); role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var users []models.User
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminListListings returns all listings regardless of status, with an
// optional status filter.
func AdminListListings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := storage.DB.Model(&models.Listing{})
	if status := strings.TrimSpace(ctx.URLParam("status")); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var listings []models.Listing
	err := q.Preload("Owner").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&listings).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, listings, page, perPage, total)
}

// AdminStats summarizes platform counts for the dashboard.
func AdminStats(ctx iris.Context) {
	var userCount, listingCount, verifiedCount, pendingRequests int64

	if err := storage.DB.Model(&models.User{}).Count(&userCount).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if err := storage.DB.Model(&models.Listing{}).Count(&listingCount).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if err := storage.DB.Model(&models.Listing{}).Where("verified = ?", true).Count(&verifiedCount).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if err := storage.DB.Model(&models.PropertyRequest{}).
		Where("status = ?", models.RequestStatusPending).
		Count(&pendingRequests).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"users":            userCount,
		"listings":         listingCount,
		"verifiedListings": verifiedCount,
		"pendingRequests":  pendingRequests,
	})
}
