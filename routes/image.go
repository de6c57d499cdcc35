package routes

import (
	"path/filepath"

	"home-rental-server/models"
	"home-rental-server/storage"
	"home-rental-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

const maxImagesPerUpload = 12

// UploadImages accepts multipart files under the "images" field, stores them
// under the configured upload directory and returns their public URLs.
func UploadImages(ctx iris.Context) {
	if err := ctx.Request().ParseMultipartForm(32 << 20); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid multipart form", ctx)
		return
	}

	form := ctx.Request().MultipartForm
	files := form.File["images"]
	if len(files) == 0 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "No images were provided", ctx)
		return
	}
	if len(files) > maxImagesPerUpload {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "A maximum of 12 images can be uploaded at once", ctx)
		return
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		name := storage.UniqueUploadName(file.Filename)
		dest := filepath.Join(storage.UploadDir, name)
		if _, err := ctx.SaveFormFile(file, dest); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		urls = append(urls, "/uploads/"+name)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"urls": urls})
}

func GetListingImages(ctx iris.Context) {
	listingID := ctx.Params().Get("id")

	var images []models.Image
	err := storage.DB.
		Where("listing_id = ?", listingID).
		Order("sort_order ASC, id ASC").
		Find(&images).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(images)
}

func AddImage(ctx iris.Context) {
	listingID := ctx.Params().Get("id")

	var listing models.Listing
	listingQuery := storage.DB.Where("id = ?", listingID).Limit(1).Find(&listing)
	if listingQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if listingQuery.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var input AddImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	image := models.Image{
		ListingID: listing.ID,
		URL:       input.URL,
		Name:      input.Name,
		Size:      input.Size,
		Width:     input.Width,
		Height:    input.Height,
		IsPrimary: input.IsPrimary,
		SortOrder: input.SortOrder,
	}

	var err error
	if input.IsPrimary {
		// Only one primary image per listing.
		err = storage.DB.Transaction(func(tx *gorm.DB) error {
			if txErr := tx.Model(&models.Image{}).
				Where("listing_id = ?", listing.ID).
				Update("is_primary", false).Error; txErr != nil {
				return txErr
			}
			return tx.Create(&image).Error
		})
	} else {
		err = storage.DB.Create(&image).Error
	}
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(image)
}

func UpdateImage(ctx iris.Context) {
	imageID := ctx.Params().Get("id")

	var image models.Image
	query := storage.DB.Where("id = ?", imageID).Limit(1).Find(&image)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var input UpdateImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if input.IsPrimary != nil {
		updates["is_primary"] = *input.IsPrimary
	}

	var err error
	if input.IsPrimary != nil && *input.IsPrimary {
		err = storage.DB.Transaction(func(tx *gorm.DB) error {
			if txErr := tx.Model(&models.Image{}).
				Where("listing_id = ?", image.ListingID).
				Update("is_primary", false).Error; txErr != nil {
				return txErr
			}
			return tx.Model(&image).Updates(updates).Error
		})
	} else if len(updates) > 0 {
		err = storage.DB.Model(&image).Updates(updates).Error
	}
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(image)
}

func DeleteImage(ctx iris.Context) {
	imageID := ctx.Params().Get("id")

	var image models.Image
	query := storage.DB.Where("id = ?", imageID).Limit(1).Find(&image)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&image).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"deleted": true})
}

// ReorderImages rewrites sort_order for a listing's images following the
// provided id order.
func ReorderImages(ctx iris.Context) {
	listingID := ctx.Params().Get("id")

	var input ReorderImagesInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		for position, imageID := range input.ImageIDs {
			if txErr := tx.Model(&models.Image{}).
				Where("id = ? AND listing_id = ?", imageID, listingID).
				Update("sort_order", position).Error; txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var images []models.Image
	err = storage.DB.
		Where("listing_id = ?", listingID).
		Order("sort_order ASC, id ASC").
		Find(&images).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(images)
}

func SetPrimaryImage(ctx iris.Context) {
	imageID := ctx.Params().Get("id")

	var image models.Image
	query := storage.DB.Where("id = ?", imageID).Limit(1).Find(&image)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Model(&models.Image{}).
			Where("listing_id = ?", image.ListingID).
			Update("is_primary", false).Error; txErr != nil {
			return txErr
		}
		return tx.Model(&image).Update("is_primary", true).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	image.IsPrimary = true
	ctx.JSON(image)
}

type AddImageInput struct {
	URL       string `json:"url" validate:"required"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	IsPrimary bool   `json:"isPrimary"`
	SortOrder int    `json:"sortOrder"`
}

type UpdateImageInput struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sortOrder"`
	IsPrimary *bool   `json:"isPrimary"`
}

type ReorderImagesInput struct {
	ImageIDs []uint `json:"imageIds" validate:"required,min=1"`
}
