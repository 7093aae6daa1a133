package rest

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/valyala/fasthttp"

	app "nekognition/internal/application"
	"nekognition/internal/container"
	"nekognition/internal/domain/entity"
	"nekognition/internal/infrastructure/render"
)

// HeaderCatInstances lists the detected instance names of an annotated image.
const HeaderCatInstances = "X-Cat-Instances"

// Server exposes one-shot annotation over HTTP.
type Server struct {
	annotations *app.AnnotationService
	format      render.Format
}

func NewServer(c *container.Container) *Server {
	return &Server{annotations: c.AnnotationService, format: c.OutputFormat}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &fasthttp.Server{
		Handler:            s.Handle,
		Name:               "nekognition",
		MaxRequestBodySize: entity.MaxImageBytes + 1,
	}

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Printf("Error shutting down http server: %v", err)
		}
	}()

	log.Printf("Serving http on %s", addr)
	return srv.ListenAndServe(addr)
}

// Handle routes a request.
func (s *Server) Handle(c *fasthttp.RequestCtx) {
	switch string(c.Path()) {
	case "/health":
		if !c.IsGet() {
			c.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			return
		}
		c.SetContentType("text/plain; charset=utf-8")
		c.SetBodyString("ok")

	case "/annotate":
		if !c.IsPost() {
			c.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			return
		}
		s.annotate(c)

	default:
		c.Error("not found", fasthttp.StatusNotFound)
	}
}

// annotate handles POST /annotate?highlight=Cat-1,Cat-2&format=png with the raw image as body.
func (s *Server) annotate(c *fasthttp.RequestCtx) {
	args := c.QueryArgs()

	format := s.format
	if v := args.Peek("format"); len(v) > 0 {
		f, err := render.ParseFormat(string(v))
		if err != nil {
			c.Error(err.Error(), fasthttp.StatusBadRequest)
			return
		}
		format = f
	}

	img, cats, err := s.annotations.Annotate(c, c.PostBody(), highlightNames(string(args.Peek("highlight"))))
	if err != nil {
		writeError(c, err)
		return
	}

	data, err := render.EncodeBytes(img, format)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Response.Header.Set(HeaderCatInstances, strings.Join(cats.InstanceNames(), ","))
	c.SetContentType(format.ContentType())
	c.SetBody(data)
}

func highlightNames(v string) []string {
	var names []string
	for _, name := range strings.Split(v, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func writeError(c *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		c.Error(err.Error(), fasthttp.StatusBadRequest)
	case errors.Is(err, entity.ErrUnknownInstance):
		c.Error(err.Error(), fasthttp.StatusNotFound)
	default:
		log.Printf("Error annotating: %v", err)
		c.Error("internal error", fasthttp.StatusInternalServerError)
	}
}
