package inference

import "context"

// Image es la imagen que se adjunta al pedido de completion.
type Image struct {
	Data      []byte
	MediaType string // image/jpeg, image/png, ...
}

// Completer envía una imagen + instrucción a un modelo multimodal y devuelve
// el texto de la respuesta tal cual. El protocolo (HTTP, auth, schema) es
// asunto de cada adapter.
type Completer interface {
	Complete(ctx context.Context, img Image, prompt string) (string, error)
}
