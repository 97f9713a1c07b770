// Package server exposes a filesystem over HTTP. Every route takes the
// target in the `path` query parameter.
package server

import (
	"errors"
	"io"
	"io/ioutil"
	"strconv"

	pz "github.com/weberc2/httpeasy"

	"github.com/weberc2/myfs/pkg/filesystem"
	. "github.com/weberc2/myfs/pkg/types"
)

type Server struct {
	FileSystem *filesystem.FileSystem
}

func (s *Server) Routes() []pz.Route {
	return []pz.Route{
		s.ListRoute(),
		s.CreateRoute(),
		s.ReadRoute(),
		s.WriteRoute(),
		s.StatRoute(),
		s.UsageRoute(),
	}
}

func (s *Server) ListRoute() pz.Route {
	return pz.Route{
		Path:   "/api/entries",
		Method: "GET",
		Handler: func(r pz.Request) pz.Response {
			path := r.URL.Query().Get("path")
			infos, err := s.FileSystem.ListEntries(path)
			if err != nil {
				return errorResponse("listing entries", path, err)
			}
			return pz.Ok(pz.JSON(infos))
		},
	}
}

func (s *Server) CreateRoute() pz.Route {
	return pz.Route{
		Path:   "/api/entries",
		Method: "POST",
		Handler: func(r pz.Request) pz.Response {
			query := r.URL.Query()
			path := query.Get("path")

			isDir := false
			if dir := query.Get("dir"); dir != "" {
				var err error
				if isDir, err = strconv.ParseBool(dir); err != nil {
					return pz.BadRequest(
						pz.Stringf("invalid `dir` parameter: %s", dir),
						struct{ Message, Path, Error string }{
							Message: "parsing `dir` parameter",
							Path:    path,
							Error:   err.Error(),
						},
					)
				}
			}

			if err := s.FileSystem.CreateEntry(path, isDir); err != nil {
				return errorResponse("creating entry", path, err)
			}
			return pz.Created(
				pz.Stringf("Created %s", path),
				struct {
					Message, Path string
					IsDir         bool
				}{
					Message: "created entry",
					Path:    path,
					IsDir:   isDir,
				},
			)
		},
	}
}

func (s *Server) ReadRoute() pz.Route {
	return pz.Route{
		Path:   "/api/content",
		Method: "GET",
		Handler: func(r pz.Request) pz.Response {
			path := r.URL.Query().Get("path")
			data, err := s.FileSystem.ReadContent(path)
			if err != nil {
				return errorResponse("reading content", path, err)
			}
			return pz.Ok(pz.String(string(data)))
		},
	}
}

func (s *Server) WriteRoute() pz.Route {
	return pz.Route{
		Path:   "/api/content",
		Method: "PUT",
		Handler: func(r pz.Request) pz.Response {
			path := r.URL.Query().Get("path")

			// content can never outgrow the data region
			limit := int64(s.FileSystem.Geometry().DataSize())
			data, err := ioutil.ReadAll(io.LimitReader(r.Body, limit+1))
			if err != nil {
				return pz.BadRequest(nil, struct{ Message, Path, Error string }{
					Message: "reading request body",
					Path:    path,
					Error:   err.Error(),
				})
			}
			if int64(len(data)) > limit {
				return errorResponse(
					"writing content",
					path,
					ContentTooLargeErr,
				)
			}

			if err := s.FileSystem.WriteContent(path, data); err != nil {
				return errorResponse("writing content", path, err)
			}
			return pz.Ok(
				pz.Stringf("Wrote %d bytes to %s", len(data), path),
				struct {
					Message, Path string
					Size          int
				}{
					Message: "wrote content",
					Path:    path,
					Size:    len(data),
				},
			)
		},
	}
}

func (s *Server) StatRoute() pz.Route {
	return pz.Route{
		Path:   "/api/stat",
		Method: "GET",
		Handler: func(r pz.Request) pz.Response {
			path := r.URL.Query().Get("path")
			info, err := s.FileSystem.Stat(path)
			if err != nil {
				return errorResponse("stat", path, err)
			}
			return pz.Ok(pz.JSON(info))
		},
	}
}

func (s *Server) UsageRoute() pz.Route {
	return pz.Route{
		Path:   "/api/usage",
		Method: "GET",
		Handler: func(r pz.Request) pz.Response {
			usage, err := s.FileSystem.Usage()
			if err != nil {
				return pz.InternalServerError(struct{ Message, Error string }{
					Message: "computing usage",
					Error:   err.Error(),
				})
			}
			return pz.Ok(pz.JSON(usage))
		},
	}
}

func errorResponse(message, path string, err error) pz.Response {
	logging := struct{ Message, Path, Error string }{
		Message: message,
		Path:    path,
		Error:   err.Error(),
	}

	switch {
	case errors.Is(err, NotFoundErr):
		return pz.NotFound(pz.Stringf("Not found: %s", path), logging)
	case errors.Is(err, AlreadyExistsErr):
		return pz.Conflict(pz.Stringf("Already exists: %s", path), logging)
	case errors.Is(err, InvalidPathErr),
		errors.Is(err, NotADirErr),
		errors.Is(err, IsADirErr),
		errors.Is(err, ContentTooLargeErr):
		return pz.BadRequest(pz.String(rootCause(err).Error()), logging)
	default:
		return pz.InternalServerError(logging)
	}
}

// rootCause strips the wrapping context so clients see only the error kind.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
