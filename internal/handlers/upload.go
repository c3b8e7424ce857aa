package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/taskpulse/apiserver/internal/media"
)

const (
	formFieldUsername = "username"
	formFieldPassword = "password"
	formFieldPicture  = "profilePicture"
	multipartOverhead = 1 << 20
)

// pictureFields lists accepted names for the profile picture part. The first
// is canonical; the rest are kept for older clients.
var pictureFields = []string{formFieldPicture, "file", "image"}

var (
	errPictureTooLarge = errors.New("profile picture too large")
	errPictureFields   = errors.New("profile picture sent in several fields")
)

func pictureErrorMessage(err error) string {
	switch {
	case errors.Is(err, errPictureTooLarge):
		return "Profile picture is too large"
	case errors.Is(err, errPictureFields):
		return "Send the profile picture in a single field"
	default:
		return "Invalid profile picture"
	}
}

// parsePicture returns the uploaded picture, or nil when none was sent.
func parsePicture(form *multipart.Form, maxBytes int64) (*media.Media, error) {
	if form == nil {
		return nil, nil
	}

	var header *multipart.FileHeader
	for _, field := range pictureFields {
		files := form.File[field]
		if len(files) == 0 {
			continue
		}
		if header != nil || len(files) > 1 {
			return nil, errPictureFields
		}
		header = files[0]
	}
	if header == nil {
		return nil, nil
	}
	if header.Size > maxBytes {
		return nil, errPictureTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read profile picture: %w", err)
	}
	data, err := readFileLimited(file, maxBytes)
	_ = file.Close()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &media.Media{
		Data:        data,
		ContentType: pictureContentType(header, data),
		Filename:    header.Filename,
	}, nil
}

// pictureContentType trusts the part header unless it is missing or generic,
// in which case the bytes are sniffed.
func pictureContentType(header *multipart.FileHeader, data []byte) string {
	contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		return http.DetectContentType(data)
	}
	return contentType
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errPictureTooLarge
	}
	return data, nil
}
