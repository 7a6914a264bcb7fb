// Package session resolves the employee identity once at startup from an
// ordered list of providers. Services receive the resolved context by
// injection; nothing reads ambient state at call sites.
package session

import (
	"fmt"
	"os"
)

// Context is the employee identity everything downstream is scoped by.
type Context struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	ID         string `json:"id,omitempty"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
}

// Provider yields an employee identity from one source. A provider returns
// (nil, nil) when its source has nothing to offer.
type Provider interface {
	Resolve() (*Context, error)
}

// Resolve walks the providers in order and returns the first identity with a
// non-empty email.
func Resolve(providers ...Provider) (*Context, error) {
	for _, p := range providers {
		ctx, err := p.Resolve()
		if err != nil {
			return nil, err
		}
		if ctx != nil && ctx.Email != "" {
			return ctx, nil
		}
	}
	return nil, fmt.Errorf("no session identity found - run 'stratdesk init' or set STRATDESK_EMAIL")
}

// Static wraps an explicit in-memory identity (embedded mode / --email flag).
type Static struct {
	Context Context
}

// Resolve returns the wrapped identity when it carries an email.
func (s Static) Resolve() (*Context, error) {
	if s.Context.Email == "" {
		return nil, nil
	}
	ctx := s.Context
	return &ctx, nil
}

// Env reads the identity from STRATDESK_* environment variables.
type Env struct{}

// Resolve returns the environment identity when STRATDESK_EMAIL is set.
func (Env) Resolve() (*Context, error) {
	email := os.Getenv("STRATDESK_EMAIL")
	if email == "" {
		return nil, nil
	}
	return &Context{
		Name:       os.Getenv("STRATDESK_NAME"),
		Email:      email,
		Department: os.Getenv("STRATDESK_DEPARTMENT"),
		Role:       os.Getenv("STRATDESK_ROLE"),
	}, nil
}

// FileLoader loads a persisted session blob (standalone mode).
type FileLoader interface {
	LoadSession() (*Context, error)
}

// File resolves the identity from a persisted local session blob.
type File struct {
	Loader FileLoader
}

// Resolve returns the persisted identity, or nothing when no blob exists.
func (f File) Resolve() (*Context, error) {
	if f.Loader == nil {
		return nil, nil
	}
	ctx, err := f.Loader.LoadSession()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}
	return ctx, nil
}
