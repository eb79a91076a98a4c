package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/typelens/typelens"
	"github.com/typelens/typelens/provider"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

type ServeCmd struct {
	InputFlags

	Addr string `help:"Address to listen on." default:":8080"`
}

func (c *ServeCmd) Run() error {
	res, err := c.load(context.Background())
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	s := &server{
		res:    res,
		in:     res.Inspector(),
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /v1/members", s.logged(s.handleMembers))
	mux.Handle("GET /v1/attributes", s.logged(s.handleAttributes))

	logger.Info("listening", slog.String("addr", c.Addr))
	return http.ListenAndServe(c.Addr, mux)
}

type server struct {
	res    *provider.Result
	in     *typelens.Inspector
	logger *slog.Logger
}

// membersQuery is the decoded query string of /v1/members.
type membersQuery struct {
	Type          string `schema:"type" validate:"required"`
	Declared      string `schema:"declared"`
	OwnOnly       bool   `schema:"own_only"`
	HideNonPublic bool   `schema:"hide_non_public"`
	Proxy         bool   `schema:"proxy"`
}

type memberRow struct {
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	Kind          string `json:"kind"`
	Access        string `json:"access"`
	DeclaringType string `json:"declaring_type"`
	Type          string `json:"type,omitempty"`
	Depth         int    `json:"inheritance_depth"`
	Flags         string `json:"flags"`
	Browsable     string `json:"browsable,omitempty"`
	Hidden        bool   `json:"hidden,omitempty"`
}

type membersResponse struct {
	Type     string      `json:"type"`
	Declared string      `json:"declared"`
	Proxy    string      `json:"proxy,omitempty"`
	Members  []memberRow `json:"members"`
}

func (s *server) handleMembers(w http.ResponseWriter, r *http.Request) error {
	var q membersQuery
	if err := schemaDecoder.Decode(&q, r.URL.Query()); err != nil {
		return typelens.Errorf(typelens.CodeInvalidArgument, "failed to decode query: %v", err)
	}
	if err := validate.Struct(&q); err != nil {
		return typelens.Errorf(typelens.CodeInvalidArgument, "invalid query: %v", err)
	}

	t, ok := s.res.Lookup(q.Type)
	if !ok {
		return typelens.Errorf(typelens.CodeNotFound, "unknown type %q", q.Type)
	}
	declared := t
	if q.Declared != "" {
		if declared, ok = s.res.Lookup(q.Declared); !ok {
			return typelens.Errorf(typelens.CodeNotFound, "unknown declared type %q", q.Declared)
		}
	}
	if t.IsInterface() {
		return typelens.Errorf(typelens.CodeInvalidArgument, "cannot collect members of interface %q", q.Type)
	}

	resp := membersResponse{Type: t.FullName(), Declared: declared.FullName()}
	if q.Proxy {
		if proxy, found := s.in.ResolveProxyType(t); found {
			resp.Proxy = proxy.FullName()
			t, declared = proxy, proxy
		}
	}

	rows := s.in.CollectMembers(t, declared, typelens.IsDisplayable, typelens.CollectOptions{
		IncludeInherited:            !q.OwnOnly,
		HideNonPublicWithoutSymbols: q.HideNonPublic,
	})
	resp.Members = make([]memberRow, 0, len(rows))
	for _, row := range rows {
		mr := memberRow{
			Name:          row.Member.Name(),
			DisplayName:   row.DisplayName(),
			Kind:          row.Member.Kind().String(),
			Access:        row.Member.Access().String(),
			DeclaringType: row.Member.DeclaringType().FullName(),
			Depth:         row.InheritanceDepth,
			Flags:         row.Flags.String(),
			Hidden:        row.HideNonPublic(),
		}
		if mt := row.Member.Type(); mt != nil {
			mr.Type = mt.FullName()
		}
		if row.BrowsableState != nil {
			mr.Browsable = row.BrowsableState.String()
		}
		resp.Members = append(resp.Members, mr)
	}
	return writeJSON(w, http.StatusOK, resp)
}

type attributesQuery struct {
	Type string `schema:"type" validate:"required"`
}

type attributesResponse struct {
	Type        string                    `json:"type"`
	Display     *displayInfo              `json:"display,omitempty"`
	Proxy       string                    `json:"proxy,omitempty"`
	Visualizers []typelens.VisualizerInfo `json:"visualizers,omitempty"`
}

type displayInfo struct {
	Value    string `json:"value,omitempty"`
	Name     string `json:"name,omitempty"`
	TypeName string `json:"type_name,omitempty"`
	Target   string `json:"target"`
}

func (s *server) handleAttributes(w http.ResponseWriter, r *http.Request) error {
	var q attributesQuery
	if err := schemaDecoder.Decode(&q, r.URL.Query()); err != nil {
		return typelens.Errorf(typelens.CodeInvalidArgument, "failed to decode query: %v", err)
	}
	if err := validate.Struct(&q); err != nil {
		return typelens.Errorf(typelens.CodeInvalidArgument, "invalid query: %v", err)
	}

	t, ok := s.res.Lookup(q.Type)
	if !ok {
		return typelens.Errorf(typelens.CodeNotFound, "unknown type %q", q.Type)
	}

	resp := attributesResponse{Type: t.FullName()}
	if disp, target, found := s.in.FindDisplayAttribute(t); found {
		resp.Display = &displayInfo{
			Value:    disp.Value,
			Name:     disp.Name,
			TypeName: disp.TypeName,
			Target:   target.FullName(),
		}
	}
	if proxy, found := s.in.ResolveProxyType(t); found {
		resp.Proxy = proxy.FullName()
	}
	resp.Visualizers = s.in.FindVisualizers(t)
	return writeJSON(w, http.StatusOK, resp)
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// logged adapts a handler to the logging and error envelope conventions.
func (s *server) logged(h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		err := h(w, r)
		duration := time.Since(start)

		if err != nil {
			var svcErr *typelens.Error
			if !errors.As(err, &svcErr) {
				svcErr = typelens.Errorf(typelens.CodeInternal, "%v", err)
			}
			writeError(w, svcErr)
			s.logger.Error("request failed",
				slog.String("path", r.URL.Path),
				slog.Duration("duration", duration),
				slog.Any("error", err),
			)
			return
		}
		s.logger.Info("request",
			slog.String("path", r.URL.Path),
			slog.Duration("duration", duration),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err *typelens.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus())
	_ = json.NewEncoder(w).Encode(map[string]any{"error": err})
}
