package routes

import (
	"time"

	"home-rental-server/models"
	"home-rental-server/services"
	"home-rental-server/storage"
	"home-rental-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
)

var ownershipPolicy services.PolicyConfig

// SetOwnershipPolicy injects the configured ownership policy at startup.
func SetOwnershipPolicy(cfg services.PolicyConfig) {
	ownershipPolicy = cfg
}

func CreatePropertyRequest(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreatePropertyRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Verify listing exists
	var listing models.Listing
	listingQuery := storage.DB.Where("id = ?", input.ListingID).Limit(1).Find(&listing)
	if listingQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if listingQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found",
			"Listing not found. The property may have been removed or the ID is invalid.", ctx)
		return
	}

	// One pending request per (user, listing). Read-then-write: two
	// concurrent submissions can both pass this check.
	var existing models.PropertyRequest
	existingQuery := storage.DB.
		Where("user_id = ? AND listing_id = ? AND status = ?", claims.ID, input.ListingID, models.RequestStatusPending).
		Limit(1).Find(&existing)
	if existingQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existingQuery.RowsAffected > 0 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request",
			"You already have a pending request for this property", ctx)
		return
	}

	request := models.PropertyRequest{
		UserID:    claims.ID,
		ListingID: input.ListingID,
		Message:   input.Message,
		Status:    models.RequestStatusPending,
	}
	if err := storage.DB.Create(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Preload("User").Preload("Listing").First(&request, request.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Property request created successfully",
		"request": request,
	})
}

// GetUserRequests lists the caller's requests, newest first.
func GetUserRequests(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var requests []models.PropertyRequest
	err := storage.DB.
		Preload("Listing").
		Where("user_id = ?", claims.ID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "requests": requests})
}

// GetOwnerRequests lists requests targeting listings the caller owns,
// matched by owner reference or denormalized owner email. The configured
// superuser sees everything, but only in testing mode.
func GetOwnerRequests(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	if ownershipPolicy.CanViewAllRequests(claims.Email) {
		var requests []models.PropertyRequest
		err := storage.DB.
			Preload("User").Preload("Listing").
			Order("created_at DESC").
			Find(&requests).Error
		if err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		ctx.JSON(iris.Map{"success": true, "requests": requests})
		return
	}

	var listingIDs []uint
	err := storage.DB.Model(&models.Listing{}).
		Where("owner_id = ? OR lower(owner_email) = lower(?)", claims.ID, claims.Email).
		Pluck("id", &listingIDs).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if len(listingIDs) == 0 {
		ctx.JSON(iris.Map{"success": true, "requests": []models.PropertyRequest{}})
		return
	}

	var requests []models.PropertyRequest
	err = storage.DB.
		Preload("User").Preload("Listing").
		Where("listing_id IN ?", listingIDs).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "requests": requests})
}

// UpdateRequestStatus approves or rejects a pending request. Only the
// listing owner (by reference or email) may transition it; approved and
// rejected are terminal.
func UpdateRequestStatus(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	requestID := ctx.Params().Get("id")

	var input UpdateRequestStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !slices.Contains([]string{models.RequestStatusApproved, models.RequestStatusRejected}, input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Status must be approved or rejected", ctx)
		return
	}

	var request models.PropertyRequest
	query := storage.DB.Preload("Listing").Where("id = ?", requestID).Limit(1).Find(&request)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property request not found", ctx)
		return
	}

	if request.Listing.ID == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found for this request", ctx)
		return
	}

	decision := ownershipPolicy.ListingOwnership(&request.Listing, claims.ID, claims.Email)
	if !decision.Allowed {
		utils.CreateError(iris.StatusForbidden, "Forbidden",
			"You are not authorized to update this request", ctx)
		return
	}

	if request.Status != models.RequestStatusPending {
		utils.CreateError(iris.StatusBadRequest, "Bad Request",
			"Request has already been "+request.Status, ctx)
		return
	}

	now := time.Now()
	request.Status = input.Status
	request.Response = input.Response
	request.RespondedAt = &now
	if err := storage.DB.Save(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Preload("User").Preload("Listing").First(&request, request.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Request " + input.Status + " successfully",
		"request": request,
	})
}

// DeleteRequest removes a request; only the original requester may do so.
func DeleteRequest(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	requestID := ctx.Params().Get("id")

	var request models.PropertyRequest
	query := storage.DB.Where("id = ?", requestID).Limit(1).Find(&request)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property request not found", ctx)
		return
	}

	if request.UserID != claims.ID {
		utils.CreateError(iris.StatusForbidden, "Forbidden",
			"You are not authorized to delete this request", ctx)
		return
	}

	if err := storage.DB.Delete(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Property request deleted successfully"})
}

type CreatePropertyRequestInput struct {
	ListingID uint   `json:"listingId" validate:"required"`
	Message   string `json:"message" validate:"max=1000"`
}

type UpdateRequestStatusInput struct {
	Status   string `json:"status" validate:"required"`
	Response string `json:"response" validate:"max=1000"`
}
