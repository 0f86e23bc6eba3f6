package envelope

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Success(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, 299} {
		env := Format(map[string]int{"id": 1}, status, nil)

		assert.Equal(t, status, env.Status())
		assert.True(t, env.Success())
		assert.Equal(t, map[string]int{"id": 1}, env[KeyResult])
		assert.NotContains(t, env, KeyError)
	}
}

func TestFormat_Failure(t *testing.T) {
	for _, status := range []int{199, http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusInternalServerError} {
		env := Format("boom", status, nil)

		assert.Equal(t, status, env.Status())
		assert.False(t, env.Success())
		assert.Equal(t, Message{Message: "boom"}, env[KeyError])
		assert.NotContains(t, env, KeyResult)
	}
}

func TestFormat_StringIsWrapped(t *testing.T) {
	env := Format("Task deleted successfully", http.StatusOK, nil)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":200,"success":true,"result":{"message":"Task deleted successfully"}}`, string(raw))
}

func TestFormat_AdditionalFields(t *testing.T) {
	env := Format([]string{"a"}, http.StatusOK, map[string]any{
		"meta":     map[string]int{"total": 1},
		KeyStatus:  500,
		KeySuccess: false,
		KeyError:   "injected",
	})

	assert.Equal(t, map[string]int{"total": 1}, env["meta"])
	assert.Equal(t, http.StatusOK, env.Status())
	assert.True(t, env.Success())
	assert.NotContains(t, env, KeyError)
	assert.Len(t, env, 4)
}

func TestFormat_DoesNotMutateAdditional(t *testing.T) {
	additional := map[string]any{"message": "The given data was invalid."}
	_ = Format(map[string][]string{"title": {"Title is required"}}, http.StatusUnprocessableEntity, additional)

	assert.Len(t, additional, 1)
}

func TestEnvelope_StatusAfterDecode(t *testing.T) {
	raw, err := json.Marshal(Format("nope", http.StatusNotFound, nil))
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, http.StatusNotFound, decoded.Status())
	assert.False(t, decoded.Success())
	assert.Equal(t, 0, Envelope{}.Status())
}
