package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hello = `{"files":[{"filename":"main.py","content":"print('hello')"}]}`

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []File
		wantErr error
	}{
		{
			name: "strict json",
			raw:  hello,
			want: []File{{Filename: "main.py", Content: "print('hello')"}},
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n" + hello + "\n```",
			want: []File{{Filename: "main.py", Content: "print('hello')"}},
		},
		{
			name: "single quoted dictionary",
			raw:  `{'files': [{'filename': 'a.js', 'content': 'console.log(1)'}]}`,
			want: []File{{Filename: "a.js", Content: "console.log(1)"}},
		},
		{
			name: "surrounding prose",
			raw:  "Here is the project:\n" + hello + "\nEnjoy!",
			want: []File{{Filename: "main.py", Content: "print('hello')"}},
		},
		{
			name: "nested paths keep separators",
			raw:  `{"files":[{"filename":"src/lib/util.go","content":"package lib"},{"filename":" main.go ","content":""}]}`,
			want: []File{{Filename: "src/lib/util.go", Content: "package lib"}, {Filename: "main.go", Content: ""}},
		},
		{name: "empty list", raw: `{"files": []}`, wantErr: ErrEmptyManifest},
		{name: "missing key", raw: `{"project": []}`, wantErr: ErrMissingFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Failures(t *testing.T) {
	for _, raw := range []string{
		"",
		"   \n\t ",
		"```",
		"not json at all",
		`{"files": [{"filename": "", "content": "x"}]}`,
		`{"files": "main.py"}`,
		`["main.py"]`,
	} {
		_, err := Decode(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestDecode_FenceEquivalence(t *testing.T) {
	bodies := []string{
		hello,
		`{"files":[{"filename":"a/b.c","content":"int main(){return 0;}"},{"filename":"README.md","content":"# hi\n"}]}`,
	}
	for _, body := range bodies {
		plain, err := Decode(body)
		require.NoError(t, err)
		for _, fence := range []string{"```\n", "```json\n", "  ```JSON\n"} {
			fenced, err := Decode(fence + body + "\n```\n")
			require.NoError(t, err)
			assert.Equal(t, plain, fenced)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	files := []File{{Filename: "main.py", Content: "print(\"x\")\n"}, {Filename: "lib/a.py", Content: ""}}

	got, err := Decode(Encode(files))
	require.NoError(t, err)
	assert.Equal(t, files, got)
	assert.Equal(t, `{"files":[]}`, Encode(nil))
}

func TestPathsAndClone(t *testing.T) {
	files := []File{{Filename: "a"}, {Filename: "b"}}
	assert.Equal(t, []string{"a", "b"}, Paths(files))

	c := Clone(files)
	c[0].Filename = "z"
	assert.Equal(t, "a", files[0].Filename)
	assert.Nil(t, Clone(nil))
}
