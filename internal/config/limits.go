package config

// Validation limits shared by services and handlers
const (
	MaxFolderNameLength = 255
	MaxFileNameLength   = 255

	// MaxUploadBytes caps a single multipart upload
	MaxUploadBytes = 512 << 20 // 512MB

	// MaxJSONBodyBytes caps JSON request bodies
	MaxJSONBodyBytes = 1 << 20 // 1MB
)
