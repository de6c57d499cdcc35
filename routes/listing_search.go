package routes

import (
	"strings"

	"home-rental-server/models"
	"home-rental-server/storage"
	"home-rental-server/utils"

	"github.com/kataras/iris/v12"
)

// SearchListings handles filtered listing search with true pagination,
// separate from the radius query contract.
func SearchListings(ctx iris.Context) {
	q := storage.DB.Model(&models.Listing{})

	if text := strings.TrimSpace(ctx.URLParam("q")); text != "" {
		like := "%" + strings.ToLower(text) + "%"
		q = q.Where("lower(title) LIKE ? OR lower(location_text) LIKE ? OR lower(description) LIKE ?", like, like, like)
	}

	if minPrice, err := ctx.URLParamInt("minPrice"); err == nil && minPrice > 0 {
		q = q.Where("price >= ?", minPrice)
	}
	if maxPrice, err := ctx.URLParamInt("maxPrice"); err == nil && maxPrice > 0 {
		q = q.Where("price <= ?", maxPrice)
	}
	if category := strings.TrimSpace(ctx.URLParam("category")); category != "" {
		q = q.Where("property_type = ?", category)
	}
	if furnished := strings.TrimSpace(ctx.URLParam("furnished")); furnished != "" {
		q = q.Where("furnished = ?", furnished)
	}
	if verified := strings.TrimSpace(ctx.URLParam("verified")); verified != "" {
		q = q.Where("verified = ?", true)
	}
	if minBeds, err := ctx.URLParamInt("minBeds"); err == nil && minBeds > 0 {
		q = q.Where("bedrooms >= ?", minBeds)
	}
	if minBaths, err := ctx.URLParamInt("minBaths"); err == nil && minBaths > 0 {
		q = q.Where("bathrooms >= ?", minBaths)
	}

	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := ctx.URLParamIntDefault("pageSize", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var items []models.Listing
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"total": total, "items": items})
}
