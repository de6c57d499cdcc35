package routes

import (
	"encoding/json"
	"strconv"
	"time"

	"home-rental-server/models"
	"home-rental-server/services"
	"home-rental-server/storage"
	"home-rental-server/utils"

	"github.com/kataras/iris/v12"
)

const (
	defaultRadiusMeters = 5000
	maxListingResults   = 200
)

// Haversine distance in meters computed in SQL so the radius query can be
// filtered and ordered by the database. @lat/@lng are the query point.
const distanceMetersSQL = `6371000 * 2 * asin(sqrt(pow(sin(radians(@lat - lat) / 2), 2) + cos(radians(@lat)) * cos(radians(lat)) * pow(sin(radians(@lng - lng) / 2), 2)))`

func CreateListing(ctx iris.Context) {
	var input CreateListingInput

	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Owner email comes from the token when authenticated, otherwise the body.
	claims := utils.CurrentClaims(ctx)
	ownerEmail := input.OwnerEmail
	if claims != nil && claims.Email != "" {
		ownerEmail = claims.Email
	}
	if ownerEmail == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "ownerEmail required", ctx)
		return
	}

	// Accept location as GeoJSON or a {lat,lng} pair; missing coordinates
	// silently default to [0,0].
	lat, lng := 0.0, 0.0
	if input.Location != nil && len(input.Location.Coordinates) == 2 {
		lng = input.Location.Coordinates[0]
		lat = input.Location.Coordinates[1]
	} else if input.Lat != nil && input.Lng != nil {
		lat = *input.Lat
		lng = *input.Lng
	}

	// Ensure arrays are never null
	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)

	images := input.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, _ := json.Marshal(images)

	locationText := input.LocationText
	if locationText == "" {
		locationText = input.Address
	}

	furnishing := input.Furnishing
	if furnishing == "" {
		furnishing = "Unfurnished"
	}

	availableFor := input.AvailableFor
	if availableFor == "" {
		availableFor = "Any"
	}

	availableUnits := input.AvailableUnits
	if availableUnits <= 0 {
		availableUnits = 1
	}

	listing := models.Listing{
		Title:          input.Title,
		Description:    input.Description,
		Price:          input.Price,
		LocationText:   locationText,
		Lat:            lat,
		Lng:            lng,
		PropertyType:   input.PropertyType,
		Bedrooms:       input.Bedrooms,
		Bathrooms:      input.Bathrooms,
		Area:           input.Area,
		Furnished:      input.Furnished,
		Furnishing:     furnishing,
		Amenities:      amenitiesJSON,
		Images:         imagesJSON,
		OwnerEmail:     ownerEmail,
		DepositAmount:  input.DepositAmount,
		AvailableFor:   availableFor,
		AvailableUnits: availableUnits,
		Status:         "available",
	}

	if claims != nil {
		ownerID := claims.ID
		listing.OwnerID = &ownerID
	}

	if createErr := storage.DB.Create(&listing).Error; createErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&listing)
}

// GetListings answers two contracts: with lat/lng it is a radius query
// ordered nearest-first (radius in meters, default 5000, capped at 200
// rows); without coordinates it returns the 200 most recent listings.
func GetListings(ctx iris.Context) {
	latStr := ctx.URLParam("lat")
	lngStr := ctx.URLParam("lng")

	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "lat and lng must be numbers", ctx)
			return
		}

		radius := defaultRadiusMeters
		if v := ctx.URLParam("radius"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				radius = n
			}
		}

		var listings []models.Listing
		queryErr := storage.DB.Raw(
			"SELECT * FROM listings WHERE deleted_at IS NULL AND "+distanceMetersSQL+" <= @radius ORDER BY "+distanceMetersSQL+" ASC LIMIT @limit",
			map[string]interface{}{"lat": lat, "lng": lng, "radius": radius, "limit": maxListingResults},
		).Scan(&listings).Error
		if queryErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}

		ctx.JSON(listings)
		return
	}

	// fallback: most recent listings
	var listings []models.Listing
	if err := storage.DB.Order("created_at DESC").Limit(maxListingResults).Find(&listings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(listings)
}

func GetListingByID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var listing models.Listing
	query := storage.DB.Preload("Owner").Where("id = ?", id).Limit(1).Find(&listing)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found", ctx)
		return
	}

	ctx.JSON(&listing)
}

// UpdateListing applies a whitelist-based partial update; unknown fields in
// the payload are ignored.
func UpdateListing(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var listing models.Listing
	query := storage.DB.Where("id = ?", id).Limit(1).Find(&listing)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found", ctx)
		return
	}

	var input UpdateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.LocationText != nil {
		updates["location_text"] = *input.LocationText
	}
	if input.Lat != nil && input.Lng != nil {
		updates["lat"] = *input.Lat
		updates["lng"] = *input.Lng
	}
	if input.PropertyType != nil {
		updates["property_type"] = *input.PropertyType
	}
	if input.Bedrooms != nil {
		updates["bedrooms"] = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		updates["bathrooms"] = *input.Bathrooms
	}
	if input.Area != nil {
		updates["area"] = *input.Area
	}
	if input.Furnished != nil {
		updates["furnished"] = *input.Furnished
	}
	if input.Furnishing != nil {
		updates["furnishing"] = *input.Furnishing
	}
	if input.DepositAmount != nil {
		updates["deposit_amount"] = *input.DepositAmount
	}
	if input.AvailableFor != nil {
		updates["available_for"] = *input.AvailableFor
	}
	if input.AvailableUnits != nil {
		updates["available_units"] = *input.AvailableUnits
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Amenities != nil {
		amenitiesJSON, _ := json.Marshal(input.Amenities)
		updates["amenities"] = amenitiesJSON
	}
	if input.Images != nil {
		imagesJSON, _ := json.Marshal(input.Images)
		updates["images"] = imagesJSON
	}
	updates["updated_at"] = time.Now()

	if err := storage.DB.Model(&listing).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(&listing)
}

// DeleteListing is a hard delete. Property requests referencing the listing
// are left dangling, matching the documented non-cascading contract.
func DeleteListing(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var listing models.Listing
	query := storage.DB.Where("id = ?", id).Limit(1).Find(&listing)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found", ctx)
		return
	}

	if err := storage.DB.Unscoped().Delete(&listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Listing deleted"})
}

// VerifyListing flips the verified flag. Admin only; audited.
func VerifyListing(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var listing models.Listing
	query := storage.DB.Where("id = ?", id).Limit(1).Find(&listing)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found", ctx)
		return
	}

	before := listing
	if err := storage.DB.Model(&listing).Updates(map[string]interface{}{"verified": true, "updated_at": time.Now()}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "listing.verify", "listing", listing.ID, &before, &listing)

	ctx.JSON(iris.Map{"message": "Listing verified"})
}

// GetListingsNearLandmark returns available listings close to a curated
// city landmark.
func GetListingsNearLandmark(ctx iris.Context) {
	landmarkKey := ctx.Params().Get("landmark")
	limit := ctx.URLParamIntDefault("limit", 8)

	landmark, exists := services.GetLandmarkInfo(landmarkKey)
	if !exists {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Landmark not found", ctx)
		return
	}

	var listings []models.Listing
	if err := storage.DB.Where("status = ?", "available").Find(&listings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	nearby := services.GetListingsNearLandmark(listings, landmarkKey)
	if len(nearby) > limit {
		nearby = nearby[:limit]
	}

	ctx.JSON(iris.Map{
		"success":  true,
		"listings": nearby,
		"landmark": landmark,
		"count":    len(nearby),
	})
}

type GeoPointInput struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lng, lat]
}

type CreateListingInput struct {
	Title          string         `json:"title" validate:"required,max=200"`
	Description    string         `json:"description"`
	Price          float64        `json:"price" validate:"required,gt=0"`
	LocationText   string         `json:"locationText"`
	Address        string         `json:"address"`
	Location       *GeoPointInput `json:"location"`
	Lat            *float64       `json:"lat"`
	Lng            *float64       `json:"lng"`
	PropertyType   string         `json:"propertyType"`
	Bedrooms       int            `json:"bedrooms"`
	Bathrooms      int            `json:"bathrooms"`
	Area           float64        `json:"area"`
	Furnished      string         `json:"furnished"`
	Furnishing     string         `json:"furnishing"`
	DepositAmount  float64        `json:"depositAmount"`
	AvailableFor   string         `json:"availableFor"`
	AvailableUnits int            `json:"availableUnits"`
	Amenities      []string       `json:"amenities"`
	Images         []string       `json:"images"`
	OwnerEmail     string         `json:"ownerEmail"`
}

type UpdateListingInput struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price"`
	LocationText   *string  `json:"locationText"`
	Lat            *float64 `json:"latitude"`
	Lng            *float64 `json:"longitude"`
	PropertyType   *string  `json:"category"`
	Bedrooms       *int     `json:"bedrooms"`
	Bathrooms      *int     `json:"bathrooms"`
	Area           *float64 `json:"area"`
	Furnished      *string  `json:"furnished"`
	Furnishing     *string  `json:"furnishing"`
	DepositAmount  *float64 `json:"deposit"`
	AvailableFor   *string  `json:"availableFor"`
	AvailableUnits *int     `json:"availableUnits"`
	Status         *string  `json:"status"`
	Amenities      []string `json:"amenities"`
	Images         []string `json:"images"`
}
