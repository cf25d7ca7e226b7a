package models

// UploadedImage is a food photo received with an upload request. It lives for
// one request and is never written to disk.
type UploadedImage struct {
	Filename string
	MimeType string
	Size     int64
	Data     []byte
}
