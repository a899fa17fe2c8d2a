package request

import (
	"fmt"
	"strings"
)

type ModerateImageRequest struct {
	Email       string `json:"email"`
	ImageURL    string `json:"image_url,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

func (r *ModerateImageRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("email is not valid")
	}
	if r.ImageURL == "" && r.ImageBase64 == "" {
		return fmt.Errorf("either image_url or image_base64 is required")
	}
	if r.ImageURL != "" && r.ImageBase64 != "" {
		return fmt.Errorf("image_url and image_base64 are mutually exclusive")
	}
	return nil
}
