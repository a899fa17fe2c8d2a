package request

import (
	"fmt"
	"strings"
)

type ModerateTextRequest struct {
	Email string `json:"email"`
	Text  string `json:"text"`
}

func (r *ModerateTextRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("email is not valid")
	}
	if r.Text == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}
