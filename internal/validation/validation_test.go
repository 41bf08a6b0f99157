package validation

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ada@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("ada"))
	assert.Error(t, ValidateEmail("ada@localhost"))
	assert.Error(t, ValidateEmail("Ada <ada@example.com>"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@x.io"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("tr0ub4dor&3"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
	assert.Error(t, ValidatePassword("MyPassword99"))
	assert.Error(t, ValidatePassword("ada-lovelace-1815", "ada-lovelace", "ada@example.com"))
	assert.Error(t, ValidatePassword("xx-grace-hopper", "gh", "grace-hopper@example.com"))
	assert.NoError(t, ValidatePassword("Sturdy-Walrus-42", "walt", "walt@example.com"))
}

func TestValidateUsername(t *testing.T) {
	for _, ok := range []string{"ada", "ada.lovelace", "run_2-go"} {
		assert.NoError(t, ValidateUsername(ok), ok)
	}
	for _, bad := range []string{"ab", strings.Repeat("a", 51), "has space", "Upper", "émile"} {
		assert.Error(t, ValidateUsername(bad), bad)
	}
}

func TestValidateHabitName(t *testing.T) {
	assert.NoError(t, ValidateHabitName("Morning run"))
	assert.Error(t, ValidateHabitName("   "))
	assert.NoError(t, ValidateHabitName(strings.Repeat("é", 100)))
	assert.Error(t, ValidateHabitName(strings.Repeat("é", 101)))
	assert.Error(t, ValidateDescription(strings.Repeat("x", 501)))
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("avatar", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["avatar"][0]
}

func TestValidateFile(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	assert.NoError(t, ValidateFile(fileHeader(t, "me.png", png), ImageConstraints))
	assert.Error(t, ValidateFile(fileHeader(t, "me.txt", png), ImageConstraints))
	assert.Error(t, ValidateFile(fileHeader(t, "me.png", []byte("plain text")), ImageConstraints))
	assert.Error(t, ValidateFile(fileHeader(t, "me.png", png)))
}

func TestDetectContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	got, err := DetectContentType(fileHeader(t, "avatar.jpg", png))
	require.NoError(t, err)
	assert.Equal(t, "image/png", got)
}
