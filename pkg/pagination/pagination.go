// Copyright (c) 2026 AccountHub. All rights reserved.

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how offset-based navigation is requested via query
// parameters and how the resulting metadata is delivered in the API
// response envelope.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 100
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 200
	// DefaultSkip is the starting offset.
	DefaultSkip = 0
)

// Params holds the parsed skip and limit from a request's query string.
type Params struct {
	Skip  int
	Limit int
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
	Count int `json:"count"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(params Params, count int) Meta {
	return Meta{
		Skip:  params.Skip,
		Limit: params.Limit,
		Count: count,
	}
}

// FromRequest parses "skip" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid, negative, or excessive values are automatically clamped to
// [DefaultSkip], [DefaultLimit], or [MaxLimit].
func FromRequest(r *http.Request) Params {
	skip := parseIntParam(r, "skip", DefaultSkip)
	limit := parseIntParam(r, "limit", DefaultLimit)

	if skip < 0 {
		skip = DefaultSkip
	}

	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Skip: skip, Limit: limit}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
