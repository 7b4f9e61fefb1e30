package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSrc string

// Requirement names the schema definition a command validates against.
type Requirement string

const (
	// RequireAuth needs a credential and auth endpoint.
	RequireAuth Requirement = "#Auth"

	// RequireFetch additionally needs the export endpoint, owner and window.
	RequireFetch Requirement = "#Fetch"
)

// fieldSources names where each schema field can be set, for messages.
var fieldSources = map[string]string{
	"refresh_token":  EnvRefreshToken,
	"auth_url":       EnvAuthURL,
	"base_api":       EnvBaseAPI,
	"team_id":        "--team or " + EnvTeamID,
	"start_time":     "--start or " + EnvStartTime,
	"end_time":       "--end or " + EnvEndTime,
	"auth_timeout":   EnvAuthTimeout,
	"export_timeout": EnvExportTimeout,
	"data_dir":       EnvDataDir,
	"database":       "--db or " + EnvDatabase,
}

// Problem is one failed schema constraint.
type Problem struct {
	Field   string
	Message string
}

// ValidationError lists every settings problem found for a requirement.
type ValidationError struct {
	Requirement Requirement
	Problems    []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		if src, ok := fieldSources[p.Field]; ok {
			parts[i] = fmt.Sprintf("%s (set %s): %s", p.Field, src, p.Message)
		} else {
			parts[i] = fmt.Sprintf("%s: %s", p.Field, p.Message)
		}
	}
	return "invalid settings: " + strings.Join(parts, "; ")
}

// Fields returns the names of the fields with problems.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		out[i] = p.Field
	}
	return out
}

// document is the CUE-facing view of s.
func (s Settings) document() map[string]any {
	return map[string]any{
		"refresh_token":  s.RefreshToken,
		"auth_url":       s.AuthURL,
		"base_api":       s.BaseAPI,
		"team_id":        s.TeamID,
		"start_time":     s.StartTime,
		"end_time":       s.EndTime,
		"auth_timeout":   s.AuthTimeout.Seconds(),
		"export_timeout": s.ExportTimeout.Seconds(),
		"data_dir":       s.DataDir,
		"database":       s.Database,
	}
}

// Validate checks s against the schema definition named by req.
func (s Settings) Validate(req Requirement) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile settings schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath(string(req)))
	if !def.Exists() {
		return fmt.Errorf("unknown settings requirement %q", req)
	}

	unified := def.Unify(ctx.Encode(s.document()))
	err := unified.Validate(cue.Concrete(true), cue.All())
	if err == nil {
		return nil
	}

	verr := &ValidationError{Requirement: req}
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		field := ""
		if path := e.Path(); len(path) > 0 {
			field = path[len(path)-1]
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		verr.Problems = append(verr.Problems, Problem{Field: field, Message: problemMessage(field)})
	}
	return verr
}

// problemMessage describes a failed field without quoting its value.
func problemMessage(field string) string {
	switch field {
	case "auth_url", "base_api":
		return "must be an http(s) URL"
	case "auth_timeout", "export_timeout":
		return "must be positive"
	default:
		return "must not be empty"
	}
}
