package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/gateway"
	"github.com/goliatone/go-formbuilder/pkg/schemafile"
)

const fetchTimeout = 15 * time.Second

// loadSchema reads a JSON or YAML schema from a path or an http(s) URL and
// reports dropped items on warn.
func loadSchema(ctx context.Context, registry *components.Registry, ref string, warn io.Writer) (schemafile.Result, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return schemafile.Result{}, fmt.Errorf("schema path is required")
	}
	var src schemafile.Source
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		parsed, err := schemafile.SourceFromURL(ref)
		if err != nil {
			return schemafile.Result{}, err
		}
		src = parsed
	} else {
		src = schemafile.SourceFromFile(ref)
	}
	loader := schemafile.NewLoader(
		schemafile.WithRegistry(registry),
		schemafile.WithHTTPFallback(fetchTimeout),
	)
	result, err := loader.Load(ctx, src)
	if err != nil {
		return schemafile.Result{}, err
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(warn, "warning: %v\n", issue)
	}
	return result, nil
}

func newClient(server string) (*gateway.Client, error) {
	if strings.TrimSpace(server) == "" {
		return nil, fmt.Errorf("--server is required")
	}
	return gateway.NewClient(server, gateway.WithUserAgent("formbuilder-cli/"+Version))
}
