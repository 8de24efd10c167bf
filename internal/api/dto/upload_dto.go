package dto

// PresignUploadRequest asks for one authorized image upload.
type PresignUploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}
