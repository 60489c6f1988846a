// Package website serves the files of a public directory.
package website

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"http-server/application/http"
	"http-server/application/http/actor/server"
	"http-server/application/http/status"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

// aliases maps request paths to the file they serve.
var aliases = map[string]string{
	"/":      "/index.html",
	"/hello": "/hello.html",
}

type Options struct {
	// CacheTTL is how long file contents are kept in memory. Zero disables caching.
	CacheTTL time.Duration
}

type Handler struct {
	server.BadRequestHandler

	publicPath string // Absolute, symlinks resolved.
	cache      *cache.Cache

	logger *slog.Logger
}

var _ server.Handler = (*Handler)(nil)

func New(publicPath string, logger *slog.Logger, opts Options) (*Handler, error) {
	canonical, err := canonicalize(publicPath)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving public path %q", publicPath)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, errors.Wrap(err, "inspecting public path")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("public path %q is not a directory", publicPath)
	}

	h := &Handler{
		publicPath: canonical,
		logger:     logger,
	}
	if opts.CacheTTL > 0 {
		h.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}

	return h, nil
}

func (h *Handler) HandleRequest(c *server.HandleContext, request *http.Request) *http.Response {
	if request.Method() != http.MethodGet {
		return http.NewResponse(status.NotFound)
	}

	// An aliased page always answers 200, without a body when its file is unreadable.
	if alias, ok := aliases[request.Path()]; ok {
		if content, ok := h.readFile(c.Logger(), alias); ok {
			return http.NewResponse(status.Ok, http.WithBody(content))
		}
		return http.NewResponse(status.Ok)
	}

	content, ok := h.readFile(c.Logger(), request.Path())
	if !ok {
		return http.NewResponse(status.NotFound)
	}

	return http.NewResponse(status.Ok, http.WithBody(content))
}

// readFile reads the file at request path p inside the public directory.
// It refuses paths that resolve outside of it.
func (h *Handler) readFile(logger *slog.Logger, p string) (string, bool) {
	joined := filepath.Join(h.publicPath, filepath.FromSlash(p))

	canonical, err := canonicalize(joined)
	if err != nil {
		return "", false
	}

	if !h.contains(canonical) {
		logger.Warn("directory traversal attempt", "path", p, "resolved", canonical)
		return "", false
	}

	if h.cache != nil {
		if content, ok := h.cache.Get(canonical); ok {
			return content.(string), true
		}
	}

	b, err := os.ReadFile(canonical)
	if err != nil {
		logger.Debug("failed to read file", "path", canonical, "error", err)
		return "", false
	}

	content := string(b)
	if h.cache != nil {
		h.cache.SetDefault(canonical, content)
	}

	return content, true
}

func (h *Handler) contains(p string) bool {
	return p == h.publicPath || strings.HasPrefix(p, h.publicPath+string(filepath.Separator))
}

func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
