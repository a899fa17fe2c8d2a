package functional_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ModerateText(t *testing.T, email, text string) map[string]interface{} {
	status, resp := sendRequest(t, http.MethodPost, ServerUrl+"/api/v1/moderate/text", map[string]interface{}{
		"email": email,
		"text":  text,
	})
	assert.Equal(t, http.StatusOK, status)
	if status != http.StatusOK {
		t.Fatalf("❌ Failed to moderate text. Status: %d, Response: %v", status, resp)
	}

	requestID, ok := resp["request_id"].(string)
	assert.True(t, ok)
	assert.NotEmpty(t, requestID)
	t.Logf("✅ Text moderated, request ID: %s, classification: %v", requestID, resp["classification"])
	return resp
}

func sendRequest(t *testing.T, method, url string, body interface{}) (int, map[string]interface{}) {
	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		assert.NoError(t, err)
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, reqBody)
	assert.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)

	var respData map[string]interface{}
	err = json.Unmarshal(respBytes, &respData)
	assert.NoError(t, err)

	return resp.StatusCode, respData
}
