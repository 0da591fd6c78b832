package prediction

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const defaultMaxImages = 4

// Limits bound the attachments a request may carry.
type Limits struct {
	MaxImages     int
	MaxImageBytes int
}

// Validate checks a request before any quota or provider work is done.
func (in Input) Validate(limits Limits) error {
	if strings.TrimSpace(in.Prompt) == "" {
		return &ValidationError{Field: "prompt", Message: "Prompt is required"}
	}
	if _, ok := ParseBetType(string(in.BetType)); !ok {
		return &ValidationError{Field: "bet_type", Message: fmt.Sprintf("Unsupported bet type: %s", in.BetType)}
	}
	if in.Odds != nil && *in.Odds == 0 {
		return &ValidationError{Field: "odds", Message: "Odds must be a non-zero American line"}
	}
	maxImages := limits.MaxImages
	if maxImages <= 0 || maxImages > defaultMaxImages {
		maxImages = defaultMaxImages
	}
	if len(in.Images) > maxImages {
		return &ValidationError{Field: "images", Message: fmt.Sprintf("At most %d images are allowed", maxImages)}
	}
	for i, img := range in.Images {
		if err := img.validate(i, limits.MaxImageBytes); err != nil {
			return err
		}
	}
	return nil
}

func (img ImageAttachment) validate(idx, maxBytes int) error {
	field := fmt.Sprintf("images[%d]", idx)
	if strings.TrimSpace(img.Data) == "" || strings.TrimSpace(img.MimeType) == "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("Image %d is missing data or mimeType", idx+1)}
	}
	if !strings.HasPrefix(strings.ToLower(img.MimeType), "image/") {
		return &ValidationError{Field: field, Message: fmt.Sprintf("Image %d has unsupported type %s", idx+1, img.MimeType)}
	}
	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(img.Data)) > maxBytes+2 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("Image %d exceeds %d bytes", idx+1, maxBytes)}
	}
	decoded, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return &ValidationError{Field: field, Message: fmt.Sprintf("Image %d is not valid base64", idx+1)}
	}
	if maxBytes > 0 && len(decoded) > maxBytes {
		return &ValidationError{Field: field, Message: fmt.Sprintf("Image %d exceeds %d bytes", idx+1, maxBytes)}
	}
	return nil
}
