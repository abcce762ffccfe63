package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/upstream"
)

// fetchCollection retrieves a JSON document from an upstream and
// extracts the named collection field.
//
// Fallback policy: an upstream 500, an empty body, a malformed
// document, or a missing field all degrade to an empty collection so
// list pages render with no entries instead of failing. Only a
// transport-level failure (connect refused, request timeout) is
// returned as an error.
func (g *Gateway) fetchCollection(ctx context.Context, target upstream.Target, pathAndQuery, field, correlationID string) ([]any, error) {
	doc, degraded, err := g.fetchDocument(ctx, target, pathAndQuery, correlationID)
	if err != nil {
		return nil, err
	}
	if degraded {
		return []any{}, nil
	}

	items, ok := doc[field].([]any)
	if !ok {
		slog.WarnContext(ctx, "upstream response missing collection field, substituting empty list",
			"upstream", target.Name,
			"field", field,
			"correlation_id", correlationID,
		)
		return []any{}, nil
	}
	return items, nil
}

// fetchEntity retrieves a JSON document from an upstream and extracts
// the named entity field. Unlike collections, an entity has no safe
// substitute: any degradation is an error and the caller fails the
// request.
func (g *Gateway) fetchEntity(ctx context.Context, target upstream.Target, pathAndQuery, field, correlationID string) (any, error) {
	doc, degraded, err := g.fetchDocument(ctx, target, pathAndQuery, correlationID)
	if err != nil {
		return nil, err
	}
	if degraded {
		return nil, &upstream.UpstreamError{
			Upstream: target.Name,
			Err:      fmt.Errorf("degraded response for %s", pathAndQuery),
		}
	}

	entity, ok := doc[field]
	if !ok || entity == nil {
		return nil, &upstream.UpstreamError{
			Upstream: target.Name,
			Err:      fmt.Errorf("response missing field %q", field),
		}
	}
	return entity, nil
}

// fetchDocument performs the shared fetch-and-decode step. It returns
// degraded=true when the response cannot be used (status 500, empty
// body, or undecodable JSON) and an error only for transport-level
// failures.
func (g *Gateway) fetchDocument(ctx context.Context, target upstream.Target, pathAndQuery, correlationID string) (map[string]any, bool, error) {
	resp, err := g.Client.Get(ctx, target, pathAndQuery, correlationID)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, &upstream.UpstreamError{Upstream: target.Name, Err: err}
	}

	if resp.StatusCode == 500 || len(bytes.TrimSpace(body)) == 0 {
		slog.WarnContext(ctx, "degraded upstream response",
			"upstream", target.Name,
			"path", pathAndQuery,
			"status", resp.StatusCode,
			"body_bytes", len(body),
			"correlation_id", correlationID,
		)
		return nil, true, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		slog.WarnContext(ctx, "undecodable upstream response",
			"upstream", target.Name,
			"path", pathAndQuery,
			"status", resp.StatusCode,
			"correlation_id", correlationID,
			"error", err,
		)
		return nil, true, nil
	}
	return doc, false, nil
}
