package media

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/zeebo/errs"

	cl "spotifake/pkg/catalog"
)

// Error is the class of media storage errors.
var Error = errs.Class("media")

const (
	msgInvalidBase64 = "Invalid base64 payload."
	msgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgInvalidAudio  = "Upload a valid audio file. Only mp3 is accepted."
)

// Upload is a decoded media payload ready to be stored under Name.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

type format struct {
	mime string
	ext  string
}

// Codec turns a base64 encoded field into an Upload, accepting only the
// content kinds it was configured with.
type Codec struct {
	formats    []format
	invalidMsg string
}

// Image accepts jpeg, png, gif and bmp pictures.
var Image = Codec{
	formats: []format{
		{mime: "image/jpeg", ext: "jpg"},
		{mime: "image/png", ext: "png"},
		{mime: "image/gif", ext: "gif"},
		{mime: "image/bmp", ext: "bmp"},
	},
	invalidMsg: msgInvalidImage,
}

// Audio accepts mp3 files only.
var Audio = Codec{
	formats: []format{
		{mime: "audio/mpeg", ext: "mp3"},
	},
	invalidMsg: msgInvalidAudio,
}

// Decode decodes payload, optionally prefixed with a "data:<mime>;base64,"
// header. The stored extension is derived from the detected content, never
// from the caller. Failures are validation errors naming field.
func (c Codec) Decode(field, payload string) (Upload, error) {
	data, ok := decodeBase64(payload)
	if !ok {
		return Upload{}, cl.NewValidationError(field, msgInvalidBase64)
	}

	detected := mimetype.Detect(data)
	for _, f := range c.formats {
		if detected.Is(f.mime) {
			return Upload{
				Name:        newName(f.ext),
				ContentType: f.mime,
				Data:        data,
			}, nil
		}
	}
	return Upload{}, cl.NewValidationError(field, c.invalidMsg)
}

func decodeBase64(payload string) ([]byte, bool) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		i := strings.IndexByte(payload, ',')
		if i < 0 || !strings.HasSuffix(payload[:i], ";base64") {
			return nil, false
		}
		payload = payload[i+1:]
	}
	if payload == "" {
		return nil, false
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, false
		}
	}
	return data, len(data) > 0
}

// newName returns a random name of the form "xxxxxxxx-xxx.<ext>".
func newName(ext string) string {
	return uuid.NewString()[:12] + "." + ext
}

var namePattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{3}\.[a-z0-9]+$`)

// ValidName reports whether name could have been generated by a Codec.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// URL returns the absolute URL of the stored media name under base.
func URL(base, name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + name
}
