package domain

// FileKind represents the document formats the redaction engine accepts.
type FileKind string

const (
	FileKindPDF  FileKind = "pdf"
	FileKindDOCX FileKind = "docx"
	FileKindJPG  FileKind = "jpg"
	FileKindPNG  FileKind = "png"
)

// RedactionContentTypes maps each FileKind to the media type of the redacted
// artifact. Raster inputs always come back as PNG.
var RedactionContentTypes = map[FileKind]string{
	FileKindPDF:  "application/pdf",
	FileKindDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FileKindJPG:  "image/png",
	FileKindPNG:  "image/png",
}

// RedactableExtensions maps file extensions (without dot) to FileKind.
var RedactableExtensions = map[string]FileKind{
	"pdf":  FileKindPDF,
	"docx": FileKindDOCX,
	"jpg":  FileKindJPG,
	"jpeg": FileKindJPG,
	"png":  FileKindPNG,
}

// UserRole defines the access level of an account. Employees are users whose
// Google account belongs to an allowlisted domain; everyone else is a client.
type UserRole string

const (
	RoleEmployee UserRole = "employee"
	RoleClient   UserRole = "client"
)
