package models

// MediaType is the kind of media a memory holds, as spelled in the export.
type MediaType string

const (
	MediaImage MediaType = "Image"
	MediaVideo MediaType = "Video"
)

// Memory is one record from the export document: a remote asset with
// its capture time and optional GPS coordinates.
type Memory struct {
	Date      string
	MediaType MediaType
	URL       string
	Latitude  string
	Longitude string
}

// FileRef file type values. External tooling depends on these exact
// spellings in metadata.json.
const (
	FileTypeMain    = "main"
	FileTypeOverlay = "overlay"
	FileTypeSingle  = "single"
)

// FileRef describes one file written to the output directory.
type FileRef struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}
