package constants

const (
	// MinConstructionYear is the oldest construction year a unit may
	// carry; the upper bound is the current calendar year.
	MinConstructionYear = 1000

	// MaxUploadSizeBytes caps the declaration-document upload.
	MaxUploadSizeBytes = 16 << 20
)
