package response

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationMessageDecodeFailures(t *testing.T) {
	var body struct {
		TimeSpent int `json:"timeSpent"`
	}
	err := json.Unmarshal([]byte(`{"timeSpent":"soon"}`), &body)
	assert.Equal(t, `"timeSpent" must be of type int`, ValidationMessage(err))

	err = json.Unmarshal([]byte(`{"timeSpent":`), &body)
	assert.Equal(t, "Request body is not valid JSON", ValidationMessage(err))

	err = json.Unmarshal([]byte(`{timeSpent}`), &body)
	assert.Equal(t, "Request body is not valid JSON", ValidationMessage(err))

	_, err = strconv.ParseInt("abc", 10, 64)
	assert.Equal(t, `"abc" is not a valid number`, ValidationMessage(err))
}
