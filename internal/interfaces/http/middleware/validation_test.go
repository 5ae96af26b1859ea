package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaftolife/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type bindTarget struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Age   int    `json:"age" binding:"omitempty,gte=0"`
}

func bindAndFormat(t *testing.T, body string) dto.Response {
	t.Helper()
	SetupValidator()

	router := gin.New()
	var resp dto.Response
	router.POST("/test", func(c *gin.Context) {
		var in bindTarget
		if err := c.ShouldBindJSON(&in); err != nil {
			resp = FormatValidationErrors(err, "req-42")
			c.JSON(http.StatusBadRequest, resp)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	return resp
}

func TestFormatValidationErrors_RequiredField(t *testing.T) {
	resp := bindAndFormat(t, `{}`)

	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-42", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "name", resp.Error.Details[0].Field)
	assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
}

func TestFormatValidationErrors_UsesJSONFieldNames(t *testing.T) {
	resp := bindAndFormat(t, `{"name":"Mei","email":"not-an-email"}`)

	require.NotNil(t, resp.Error)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
	assert.Equal(t, "Invalid email format", resp.Error.Details[0].Message)
}

func TestFormatValidationErrors_MultipleFields(t *testing.T) {
	resp := bindAndFormat(t, `{"email":"nope","age":-3}`)

	require.NotNil(t, resp.Error)
	assert.Len(t, resp.Error.Details, 3)
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := bindAndFormat(t, `{"name":`)

	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.Details)
	assert.NotEmpty(t, resp.Error.Message)
}
