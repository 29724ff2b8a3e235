package model

import "strings"

// Image is a stored image blob together with its sniffed MIME type.
type Image struct {
	ID       string `json:"id"`
	Data     []byte `json:"-"`
	MIMEType string `json:"mimetype"`
}

// Extension returns the subtype portion of the image's MIME type,
// e.g. "png" for "image/png".
func (img *Image) Extension() string {
	_, sub, ok := strings.Cut(img.MIMEType, "/")
	if !ok {
		return img.MIMEType
	}
	return sub
}

// Filename returns the canonical public filename: "<id>.<extension>".
func (img *Image) Filename() string {
	return img.ID + "." + img.Extension()
}

// Ingested is returned to clients after a successful upload.
type Ingested struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Deleted is returned to clients after a delete request.
type Deleted struct {
	ID string `json:"id"`
}
