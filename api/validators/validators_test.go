package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifyBody struct {
	Name  string `json:"name" validate:"required,max=8"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"welcome"}`))
	var body verifyBody
	require.NoError(t, DecodeJSONBody(httptest.NewRecorder(), req, &body))
	assert.Equal(t, "welcome", body.Name)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	var body verifyBody
	err := DecodeJSONBody(httptest.NewRecorder(), req, &body)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONBodyEmptyAndTrailing(t *testing.T) {
	var body verifyBody
	err := DecodeJSONBody(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &body)
	require.Error(t, err)
	assert.Equal(t, "request body is required", pkgerrors.As(err).Message())

	err = DecodeJSONBody(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`)), &body)
	require.Error(t, err)
	assert.Contains(t, pkgerrors.As(err).Message(), "single JSON object")
}

func TestResourceNameValidation(t *testing.T) {
	type params struct {
		Name string `json:"reasonTypeName" validate:"required,resourcename"`
	}
	assert.NoError(t, ValidateStruct(params{Name: "new-comment-on-post"}))
	assert.NoError(t, ValidateStruct(params{Name: "comment.halo.run"}))

	for _, bad := range []string{"New-Comment", "-lead", "trail-", "has space", "a_b"} {
		err := ValidateStruct(params{Name: bad})
		require.Error(t, err, bad)
		details := pkgerrors.As(err).Details().(map[string]string)
		assert.Equal(t, "must be a lowercase resource name", details["reasonTypeName"], bad)
	}
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	err := ValidateStruct(verifyBody{Name: "much-too-long", Email: "nope"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be at most 8", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&size=abc&big=500", nil)

	v, err := ParseQueryInt(req, "page", 0, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = ParseQueryInt(req, "missing", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	_, err = ParseQueryInt(req, "size", 0, 0, 100)
	assert.Error(t, err)
	_, err = ParseQueryInt(req, "big", 0, 0, 100)
	assert.Error(t, err)
}

func TestParseQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?approved=true&bad=maybe", nil)

	v, err := ParseQueryBool(req, "approved")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, *v)

	v, err = ParseQueryBool(req, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = ParseQueryBool(req, "bad")
	assert.Error(t, err)
}

func TestParseQueryStrings(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?groupName=a&groupName=b,%20c&groupName=", nil)
	assert.Equal(t, []string{"a", "b", "c"}, ParseQueryStrings(req, "groupName", 64))
	assert.Nil(t, ParseQueryStrings(req, "sort", 64))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "abc", SanitizeString("abc", 0))
	assert.Equal(t, "welcome mail", SanitizeString(" welcome \t  mail ", 0))
	assert.Equal(t, "邮件模", SanitizeString("邮件模板管理", 3))
}
