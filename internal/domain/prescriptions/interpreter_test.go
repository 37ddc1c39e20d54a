package prescriptions

import (
	"context"
	"errors"
	"testing"

	"pill-reminder/internal/ports/inference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Stub completer
// -------------------------

type stubCompleter struct {
	text  string
	err   error
	panic any

	calls  int
	img    inference.Image
	prompt string
}

func (s *stubCompleter) Complete(_ context.Context, img inference.Image, prompt string) (string, error) {
	s.calls++
	s.img = img
	s.prompt = prompt
	if s.panic != nil {
		panic(s.panic)
	}
	return s.text, s.err
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// -------------------------
// Tests
// -------------------------

func TestInterpret_FencedJSON(t *testing.T) {
	c := &stubCompleter{text: "```json\n{\"medicines\":[]}\n```"}

	res := NewInterpreter(c, nil).Interpret(context.Background(), []byte("jpeg-bytes"), "image/jpeg")

	require.Equal(t, OutcomeParsed, res.Outcome)
	assert.JSONEq(t, `{"medicines":[]}`, string(res.Data))

	meds, ok := DecodeMedicines(res.Data)
	assert.True(t, ok)
	assert.Empty(t, meds)
}

func TestInterpret_MalformedJSONIsNotAFailure(t *testing.T) {
	c := &stubCompleter{text: "not json at all"}

	res := NewInterpreter(c, nil).Interpret(context.Background(), []byte("x"), "image/jpeg")

	assert.True(t, res.Succeeded())
	assert.Equal(t, OutcomeUnparsed, res.Outcome)
	assert.Nil(t, res.Data)
	assert.Equal(t, "not json at all", res.RawText)
}

func TestInterpret_TransportErrorIsFailure(t *testing.T) {
	c := &stubCompleter{err: errors.New("dial tcp: connection refused")}

	res := NewInterpreter(c, nil).Interpret(context.Background(), []byte("x"), "image/jpeg")

	assert.False(t, res.Succeeded())
	assert.Equal(t, "dial tcp: connection refused", res.Err)
}

func TestInterpret_AdapterPanicBecomesFailure(t *testing.T) {
	c := &stubCompleter{panic: "nil map"}

	res := NewInterpreter(c, nil).Interpret(context.Background(), []byte("x"), "image/jpeg")

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Contains(t, res.Err, "nil map")
}

func TestInterpret_SendsPromptAndResolvedMediaType(t *testing.T) {
	c := &stubCompleter{text: `{"medicines":[]}`}

	NewInterpreter(c, nil).Interpret(context.Background(), pngHeader, "")

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, ExtractionPrompt, c.prompt)
	assert.Equal(t, "image/png", c.img.MediaType)
	assert.Equal(t, pngHeader, c.img.Data)
}

func TestInterpret_GuardsWithoutCallingCompleter(t *testing.T) {
	c := &stubCompleter{text: "{}"}

	res := NewInterpreter(c, nil).Interpret(context.Background(), nil, "image/png")
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, 0, c.calls)

	res = NewInterpreter(nil, nil).Interpret(context.Background(), []byte("x"), "image/png")
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, ErrNoCompleter.Error(), res.Err)
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"plain":              {in: "  {\"a\":1} \n", want: `{"a":1}`},
		"json tag":           {in: "Here you go:\n```json\n{\"a\":1}\n```\nThanks", want: `{"a":1}`},
		"upper tag":          {in: "```JSON\n{\"a\":1}```", want: `{"a":1}`},
		"no tag":             {in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		"inline fence":       {in: "```{\"a\":1}```", want: `{"a":1}`},
		"brace on tag line":  {in: "```{\n\"a\":1}\n```", want: "{\n\"a\":1}"},
		"unterminated fence": {in: "```json\n{\"a\":1}", want: `{"a":1}`},
		"first block wins":   {in: "```json\n{\"a\":1}\n```\n```json\n{\"b\":2}\n```", want: `{"a":1}`},
		"json on tag line":   {in: "```json {\"a\":1}```", want: `{"a":1}`},
		"glued to json tag":  {in: "```json{\"a\":1}```", want: `{"a":1}`},
		"json fence wins":    {in: "Note: use ``` fences\n```json\n{\"a\":1}\n```", want: `{"a":1}`},
		"other tag":          {in: "```jsonc\n{\"a\":1}\n```", want: `{"a":1}`},
		"bare tag then json": {in: "```javascript {\"a\":1}```", want: `{"a":1}`},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSON(tc.in))
		})
	}
}

func TestParseCompletion_RecoversJSONAfterStrayFence(t *testing.T) {
	for _, text := range []string{
		"```json {\"medicines\":[]}```",
		"Note: use ``` fences\n```json\n{\"medicines\":[]}\n```",
	} {
		res := ParseCompletion(text)
		require.Equal(t, OutcomeParsed, res.Outcome, text)
		assert.JSONEq(t, `{"medicines":[]}`, string(res.Data))
	}
}

func TestParseCompletion_EmptyTextIsUnparsed(t *testing.T) {
	res := ParseCompletion("   ")
	assert.Equal(t, OutcomeUnparsed, res.Outcome)
	assert.Equal(t, "   ", res.RawText)
}

func TestResolveMediaType(t *testing.T) {
	assert.Equal(t, "image/png", ResolveMediaType("image/png; charset=binary", nil))
	assert.Equal(t, "image/png", ResolveMediaType("application/octet-stream", pngHeader))
	assert.Equal(t, "image/jpeg", ResolveMediaType("", []byte("????")))
}

func TestMediaTypeFromFilename(t *testing.T) {
	assert.Equal(t, "image/png", MediaTypeFromFilename("rx.PNG"))
	assert.Equal(t, "image/gif", MediaTypeFromFilename("rx.gif"))
	assert.Equal(t, "image/jpeg", MediaTypeFromFilename("screenshot.jpg"))
	assert.Equal(t, "image/jpeg", MediaTypeFromFilename("noext"))
}

func TestUploadMediaType_FallsBackToExtension(t *testing.T) {
	assert.Equal(t, "image/gif", UploadMediaType("rx.gif", "application/octet-stream", []byte("????")))
	assert.Equal(t, "image/png", UploadMediaType("noext", "application/octet-stream", pngHeader))
	assert.Equal(t, "image/webp", UploadMediaType("rx.jpg", "image/webp", nil))
}
