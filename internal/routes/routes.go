package routes

const (
	// Health
	Health = "/health"

	// Property endpoints
	Properties      = "/api/v1/properties"
	PropertyByID    = "/api/v1/properties/{id}"
	PropertyUpload  = "/api/v1/properties/upload"
	PropertyExtract = "/api/v1/properties/extract"
)
