// Package streamproxy reenvía el body de una URL externa (frames MJPEG, snapshots
// de cámaras IP) para que el navegador no choque con CORS.
package streamproxy

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"pill-reminder/internal/platform/httpclient"
	"pill-reminder/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

var ErrInvalidURL = errors.New("invalid url")

// headers del upstream que se copian tal cual a la respuesta
var passthroughHeaders = []string{
	"Content-Type",
	"Content-Length",
	"Last-Modified",
	"ETag",
}

const copyBufferSize = 32 << 10

type Proxy struct {
	client *httpclient.Client
	log    logger.Logger
}

// NewProxy: client debería no tener timeout global (streams largos); el
// request del caller cancela el upstream al cortarse.
func NewProxy(client *httpclient.Client, log logger.Logger) *Proxy {
	if client == nil {
		client = httpclient.New(-1)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Proxy{client: client, log: log}
}

func RegisterRoutes(r chi.Router, p *Proxy) {
	r.Get("/api/stream-proxy", streamProxyHandler(p))
}

// ParseTarget valida que raw sea una URL absoluta http(s) con host.
func ParseTarget(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidURL
	}
	if u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// streamProxyHandler godoc
// @Summary Proxy de stream
// @Description Hace GET a `url` y devuelve el body tal cual (status y Content-Type del upstream), flusheando a medida que llega.
// @Tags stream
// @Produce octet-stream
// @Param url query string true "URL absoluta http(s)"
// @Success 200 {file} binary
// @Failure 400 {string} string "invalid url"
// @Failure 502 {string} string "upstream unreachable"
// @Router /api/stream-proxy [get]
func streamProxyHandler(p *Proxy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := ParseTarget(r.URL.Query().Get("url"))
		if err != nil {
			http.Error(w, "invalid url", http.StatusBadRequest)
			return
		}

		headers := map[string]string{}
		if accept := r.Header.Get("Accept"); accept != "" {
			headers["Accept"] = accept
		}

		resp, err := p.client.Stream(r.Context(), target.String(), headers)
		if err != nil {
			p.log.Warn("stream proxy upstream failed", map[string]any{
				"host":  target.Host,
				"error": err,
			})
			http.Error(w, "upstream unreachable", http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()

		for _, h := range passthroughHeaders {
			if v := resp.Header.Get(h); v != "" {
				w.Header().Set(h, v)
			}
		}
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(resp.StatusCode)

		n, err := io.CopyBuffer(&flushWriter{w: w, rc: http.NewResponseController(w)}, resp.Body, make([]byte, copyBufferSize))
		if err != nil && r.Context().Err() == nil {
			// headers ya enviados: sólo queda loguear
			p.log.Debug("stream proxy copy interrupted", map[string]any{
				"host":  target.Host,
				"bytes": n,
				"error": err,
			})
		}
	}
}

// flushWriter flushea después de cada write para que los frames lleguen sin esperar el buffer.
type flushWriter struct {
	w  io.Writer
	rc *http.ResponseController
}

func (f *flushWriter) Write(b []byte) (int, error) {
	n, err := f.w.Write(b)
	if err != nil {
		return n, err
	}
	if ferr := f.rc.Flush(); ferr != nil && !errors.Is(ferr, http.ErrNotSupported) {
		return n, ferr
	}
	return n, nil
}
