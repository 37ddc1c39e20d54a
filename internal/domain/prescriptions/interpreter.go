package prescriptions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"pill-reminder/internal/platform/logger"
	"pill-reminder/internal/ports/inference"
)

// Outcome etiqueta el resultado de interpretar una respuesta del modelo.
type Outcome string

const (
	// OutcomeParsed: la respuesta contenía JSON válido (Data != nil).
	OutcomeParsed Outcome = "parsed"
	// OutcomeUnparsed: la llamada funcionó pero el texto no es JSON. No es un error.
	OutcomeUnparsed Outcome = "unparsed"
	// OutcomeFailed: falló la llamada al servicio de inferencia.
	OutcomeFailed Outcome = "failed"
)

// Result es el valor que devuelve Interpret. Nunca hay panics ni errores sueltos:
// todo queda representado acá.
type Result struct {
	Outcome Outcome
	Data    json.RawMessage // JSON válido, solo con OutcomeParsed
	RawText string          // texto original, con OutcomeUnparsed
	Err     string          // con OutcomeFailed
}

func (r Result) Succeeded() bool { return r.Outcome != OutcomeFailed }

func parsed(data json.RawMessage) Result { return Result{Outcome: OutcomeParsed, Data: data} }
func unparsed(raw string) Result         { return Result{Outcome: OutcomeUnparsed, RawText: raw} }

func failed(err error) Result {
	msg := "inference failed"
	if err != nil && strings.TrimSpace(err.Error()) != "" {
		msg = err.Error()
	}
	return Result{Outcome: OutcomeFailed, Err: msg}
}

var (
	ErrNoCompleter = errors.New("inference completer not configured")
	ErrEmptyImage  = errors.New("image is empty")
)

const defaultMediaType = "image/jpeg"

// Interpreter manda la imagen al modelo y recupera el JSON de la respuesta.
type Interpreter struct {
	completer inference.Completer
	prompt    string
	log       logger.Logger
}

func NewInterpreter(c inference.Completer, log logger.Logger) *Interpreter {
	if log == nil {
		log = logger.Nop()
	}
	return &Interpreter{
		completer: c,
		prompt:    ExtractionPrompt,
		log:       log,
	}
}

// Interpret hace exactamente una llamada al completer.
func (i *Interpreter) Interpret(ctx context.Context, image []byte, mediaType string) (res Result) {
	if i == nil || i.completer == nil {
		return failed(ErrNoCompleter)
	}
	if len(image) == 0 {
		return failed(ErrEmptyImage)
	}

	defer func() {
		if p := recover(); p != nil {
			i.log.Error("inference adapter panicked", map[string]any{"panic": fmt.Sprint(p)})
			res = failed(fmt.Errorf("inference adapter panic: %v", p))
		}
	}()

	img := inference.Image{Data: image, MediaType: ResolveMediaType(mediaType, image)}

	text, err := i.completer.Complete(ctx, img, i.prompt)
	if err != nil {
		i.log.Warn("inference call failed", map[string]any{"error": err, "media_type": img.MediaType})
		return failed(err)
	}

	res = ParseCompletion(text)
	if res.Outcome == OutcomeUnparsed {
		i.log.Warn("model response is not json", map[string]any{"chars": len(text)})
	}
	return res
}

// ParseCompletion recupera el JSON de la respuesta cruda del modelo.
func ParseCompletion(text string) Result {
	candidate := ExtractJSON(text)
	if candidate == "" || !json.Valid([]byte(candidate)) {
		return unparsed(text)
	}
	return parsed(json.RawMessage(candidate))
}

const (
	fence     = "```"
	jsonFence = "```json"
)

// ExtractJSON devuelve el contenido del primer bloque ```json o, si no hay,
// del primer bloque ``` (con o sin tag de lenguaje). Sin bloque, el texto
// entero. Siempre sin espacios en los bordes.
func ExtractJSON(text string) string {
	var body string
	if start := indexFold(text, jsonFence); start >= 0 {
		body = text[start+len(jsonFence):]
	} else if start := strings.Index(text, fence); start >= 0 {
		body = text[start+len(fence):]
	} else {
		return strings.TrimSpace(text)
	}

	body = stripLanguageTag(body)
	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// stripLanguageTag quita el tag pegado al fence ("json5", "JSON", la "c" de
// "jsonc") cuando lo sigue un espacio o salto de línea.
func stripLanguageTag(body string) string {
	end := strings.IndexFunc(body, unicode.IsSpace)
	if end <= 0 {
		return body
	}
	if !isLanguageTag(body[:end]) {
		return body
	}
	return body[end:]
}

// isLanguageTag: una sola palabra que empieza con letra y no tiene símbolos JSON.
func isLanguageTag(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '_' || r == '+' || r == '.'):
		default:
			return false
		}
	}
	return s != ""
}

// indexFold es strings.Index sin distinguir mayúsculas; sub es ASCII.
func indexFold(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

// ResolveMediaType: el declarado si es image/*; si no, se detecta por contenido;
// si tampoco, image/jpeg.
func ResolveMediaType(declared string, data []byte) string {
	return resolveMediaType(declared, data, defaultMediaType)
}

// UploadMediaType es ResolveMediaType pero cae a la extensión del archivo
// antes que a JPEG.
func UploadMediaType(filename, declared string, data []byte) string {
	return resolveMediaType(declared, data, MediaTypeFromFilename(filename))
}

func resolveMediaType(declared string, data []byte, fallback string) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	if len(data) > 0 {
		if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
			return sniffed
		}
	}
	return fallback
}

// MediaTypeFromFilename: .png y .gif por extensión, todo lo demás JPEG.
func MediaTypeFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return defaultMediaType
	}
}
