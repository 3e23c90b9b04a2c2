package model

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AllowedRoles defines which roles a user record may carry
var AllowedRoles = map[string]bool{
	RoleUser:  true,
	RoleAdmin: true,
}

// Export profiles select the per-record rendering template. The pipeline
// contract is identical for both; only the field subset differs.
const (
	ExportProfileFull   = "full"
	ExportProfileClient = "client"
)

// Export formats
const (
	ExportFormatPDF   = "pdf"
	ExportFormatExcel = "excel"
)

// Export batching defaults
const (
	DefaultExportBatchSize = 4
	MaxExportBatchSize     = 10
	MaxExportRecords       = 500
)

// Listing defaults
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
