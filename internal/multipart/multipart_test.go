package multipart_test

import (
	"bytes"
	"mime"
	stdmultipart "mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/mgmt-client/internal/multipart"
)

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	content := []byte("[{\"email\":\"jane@example.com\"}]\n")
	body := multipart.Body{
		multipart.KeyValue("connection_id", "con_123456789"),
		multipart.File("users", "users.json", "text/json", content),
		multipart.KeyValue("upsert", "true"),
	}

	encoded, err := multipart.Encode(body)
	require.NoError(t, err)

	assert.Equal(t, "multipart/form-data; boundary="+encoded.Boundary, encoded.ContentType)

	parsed, boundary, err := multipart.Parse(encoded.ContentType, encoded.Bytes)
	require.NoError(t, err)
	assert.Equal(t, encoded.Boundary, boundary)
	assert.Equal(t, body, parsed)
}

func TestEncode_Layout(t *testing.T) {
	t.Parallel()

	body := multipart.Body{
		multipart.KeyValue("connection_id", "con_1"),
		multipart.File("users", "users.json", "text/json", []byte("[]")),
	}

	encoded, err := multipart.EncodeWithBoundary(body, "test-boundary")
	require.NoError(t, err)

	want := "--test-boundary\r\n" +
		"Content-Disposition: form-data; name=\"connection_id\"\r\n" +
		"\r\n" +
		"con_1\r\n" +
		"--test-boundary\r\n" +
		"Content-Disposition: form-data; name=\"users\"; filename=\"users.json\"\r\n" +
		"Content-Type: text/json\r\n" +
		"\r\n" +
		"[]\r\n" +
		"--test-boundary--\r\n"

	assert.Equal(t, want, string(encoded.Bytes))
	assert.Equal(t, "multipart/form-data; boundary=test-boundary", encoded.ContentType)
}

func TestEncode_ReadableByStandardReader(t *testing.T) {
	t.Parallel()

	encoded, err := multipart.Encode(multipart.Body{
		multipart.KeyValue("connection_id", "con_1"),
		multipart.File("users", `quote"d.json`, "text/json", []byte("{}")),
	})
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(encoded.ContentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	form, err := stdmultipart.NewReader(bytes.NewReader(encoded.Bytes), params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)

	assert.Equal(t, []string{"con_1"}, form.Value["connection_id"])
	require.Len(t, form.File["users"], 1)
	assert.Equal(t, `quote"d.json`, form.File["users"][0].Filename)
	assert.Equal(t, "text/json", form.File["users"][0].Header.Get("Content-Type"))
}

func TestEncode_Shapes(t *testing.T) {
	t.Parallel()

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		encoded, err := multipart.Encode(nil)
		require.NoError(t, err)

		parsed, _, err := multipart.Parse(encoded.ContentType, encoded.Bytes)
		require.NoError(t, err)
		assert.Empty(t, parsed)
	})

	t.Run("key values only", func(t *testing.T) {
		t.Parallel()

		encoded, err := multipart.Encode(multipart.Body{
			multipart.KeyValue("a", "1"),
			multipart.KeyValue("b", "2"),
		})
		require.NoError(t, err)

		parsed, _, err := multipart.Parse(encoded.ContentType, encoded.Bytes)
		require.NoError(t, err)
		require.Len(t, parsed, 2)

		part, ok := parsed.Lookup("b")
		require.True(t, ok)
		assert.Equal(t, "2", part.Value)

		_, ok = parsed.Lookup("c")
		assert.False(t, ok)
	})

	t.Run("second file is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := multipart.Encode(multipart.Body{
			multipart.File("users", "a.json", "text/json", nil),
			multipart.File("more", "b.json", "text/json", nil),
		})
		require.ErrorIs(t, err, multipart.ErrMultipleFiles)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := multipart.Encode(multipart.Body{{Name: "zero"}})
		require.ErrorIs(t, err, multipart.ErrUnknownPartKind)
	})

	t.Run("invalid boundary", func(t *testing.T) {
		t.Parallel()

		_, err := multipart.EncodeWithBoundary(nil, "")
		require.Error(t, err)
	})
}

func TestNewBoundary(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)

	for range 100 {
		boundary := multipart.NewBoundary()
		assert.True(t, strings.HasPrefix(boundary, "mgmt-"))
		assert.Len(t, boundary, len("mgmt-")+32)
		assert.False(t, seen[boundary])

		seen[boundary] = true
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := multipart.Parse("application/json", nil)
	require.ErrorIs(t, err, multipart.ErrNotMultipart)

	_, _, err = multipart.Parse("multipart/form-data", nil)
	require.ErrorIs(t, err, multipart.ErrMissingBoundary)

	_, _, err = multipart.Parse("not a media type;;", nil)
	require.Error(t, err)
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "key-value", multipart.KindKeyValue.String())
	assert.Equal(t, "file", multipart.KindFile.String())
	assert.Equal(t, "Kind(0)", multipart.Kind(0).String())
}
