package main

import (
	"log"
	"os"

	"home-rental-server/routes"
	"home-rental-server/services"
	"home-rental-server/storage"
	"home-rental-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenvErr := godotenv.Load()
	if godotenvErr != nil {
		log.Println("Error loading .env file")
	}

	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeUploads()

	app := iris.Default()
	app.Validator = validator.New()

	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", "*")
		ctx.Header("Access-Control-Allow-Credentials", "true")

		if ctx.Method() == iris.MethodOptions {
			ctx.Header("Access-Control-Allow-Methods", "POST, PUT, PATCH, DELETE, GET, OPTIONS")
			ctx.Header("Access-Control-Allow-Headers", "Access-Control-Allow-Headers, Origin, Accept, X-Requested-With, Content-Type, Access-Control-Request-Method, Access-Control-Request-Headers, Authorization")
			ctx.Header("Access-Control-Max-Age", "86400")
			ctx.StatusCode(iris.StatusNoContent)
			return
		}

		ctx.Next()
	})

	routes.SetGeolocationService(services.NewGeolocationService(services.GeolocationConfigFromEnv()))
	routes.SetOwnershipPolicy(services.PolicyFromEnv())

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, os.Getenv("REFRESH_TOKEN_SECRET"))
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var input utils.RefreshTokenInput
		err := ctx.ReadJSON(&input)
		if err != nil {
			return ""
		}
		return input.RefreshToken
	})
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	// Verify the access token when one is presented, pass the request
	// through anonymously otherwise. Handlers read utils.CurrentClaims and
	// tolerate nil.
	optionalAccessTokenMiddleware := func(ctx iris.Context) {
		if ctx.GetHeader("Authorization") == "" {
			ctx.Next()
			return
		}
		accessTokenVerifierMiddleware(ctx)
	}

	app.Get("/", func(ctx iris.Context) {
		ctx.WriteString("Home Rental API is running")
	})

	app.HandleDir("/uploads", iris.Dir(storage.UploadDir))

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/me", accessTokenVerifierMiddleware, routes.GetMe)
	}

	listings := app.Party("/api/listings")
	{
		listings.Get("/", routes.GetListings)
		listings.Get("/search", routes.SearchListings)
		listings.Get("/nearby/{landmark}", routes.GetListingsNearLandmark)
		listings.Get("/{id}", routes.GetListingByID)
		listings.Post("/", optionalAccessTokenMiddleware, routes.CreateListing)
		listings.Put("/{id}", accessTokenVerifierMiddleware, routes.UpdateListing)
		listings.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteListing)
		listings.Patch("/{id}/verify", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.VerifyListing)
	}

	requests := app.Party("/api/property-requests")
	requests.Use(accessTokenVerifierMiddleware)
	{
		requests.Post("/", routes.CreatePropertyRequest)
		requests.Get("/user", routes.GetUserRequests)
		requests.Get("/owner", routes.GetOwnerRequests)
		requests.Patch("/{id}", routes.UpdateRequestStatus)
		requests.Delete("/{id}", routes.DeleteRequest)
	}

	geolocation := app.Party("/api/geolocation")
	{
		geolocation.Post("/geocode", routes.GeocodeAddress)
		geolocation.Post("/reverse-geocode", routes.ReverseGeocode)
		geolocation.Get("/nearby-amenities", routes.FindNearbyAmenities)
		geolocation.Post("/directions", routes.GetDirections)
		geolocation.Post("/calculate-distance", routes.CalculateDistance)
		geolocation.Get("/nearby-properties", routes.FindPropertiesNearby)
		geolocation.Get("/autocomplete-address", routes.AutocompleteAddress)
	}

	images := app.Party("/api/images")
	{
		images.Get("/listing/{id}", routes.GetListingImages)
		images.Post("/upload", accessTokenVerifierMiddleware, routes.UploadImages)
		images.Post("/listing/{id}", accessTokenVerifierMiddleware, routes.AddImage)
		images.Put("/listing/{id}/reorder", accessTokenVerifierMiddleware, routes.ReorderImages)
		images.Put("/{id}", accessTokenVerifierMiddleware, routes.UpdateImage)
		images.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteImage)
		images.Put("/{id}/primary", accessTokenVerifierMiddleware, routes.SetPrimaryImage)
	}

	admin := app.Party("/api/admin")
	admin.Use(accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/listings", routes.AdminListListings)
		admin.Get("/stats", routes.AdminStats)
		admin.Post("/export", routes.AdminCreateExport)
		admin.Get("/export/{id}", routes.AdminGetExport)
		admin.Get("/export/{id}/download", routes.AdminDownloadExport)
	}

	iris.RegisterOnInterrupt(func() {
		storage.CloseDB()
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "5001"
	}
	app.Listen(":" + port)
}
