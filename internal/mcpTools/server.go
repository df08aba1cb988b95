// Package mcpTools exposes the field-order transformer as MCP tools.
package mcpTools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/transform"
	"github.com/akolanti/DocForm/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ServerName    = "docform"
	ServerVersion = "v1.0.0"
)

type ListTypesInput struct{}

type ListTypesOutput struct {
	DocumentTypes []string `json:"document_types" jsonschema:"document types with a registered field order"`
}

type TransformInput struct {
	DocumentType string `json:"document_type" jsonschema:"one of the listed document types"`
	Data         any    `json:"data" jsonschema:"extraction payload: a record, or an object of model name to record"`
}

type TransformOutput struct {
	DocumentType string                      `json:"document_type"`
	Records      []documentModel.ModelRecord `json:"records"`
}

var logger = logger_i.NewLogger("mcp")

// NewServer registers the tools on a fresh MCP server.
func NewServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: ServerVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_document_types",
		Description: "List the document types DocForm can order fields for",
	}, listDocumentTypes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "transform_document",
		Description: "Put an extraction payload into the canonical field order of a document type. Missing fields become null and addresses are expanded to all six sub-fields.",
	}, transformDocument)

	return server
}

func listDocumentTypes(ctx context.Context, req *mcp.CallToolRequest, _ ListTypesInput) (*mcp.CallToolResult, ListTypesOutput, error) {
	out := ListTypesOutput{DocumentTypes: documentModel.DocumentTypeNames()}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, ListTypesOutput{}, err
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}}}, out, nil
}

func transformDocument(ctx context.Context, req *mcp.CallToolRequest, in TransformInput) (*mcp.CallToolResult, TransformOutput, error) {
	docType, err := documentModel.ParseDocumentType(in.DocumentType)
	if err != nil {
		return nil, TransformOutput{}, err
	}
	raw, err := json.Marshal(in.Data)
	if err != nil {
		return nil, TransformOutput{}, fmt.Errorf("encode data: %w", err)
	}
	records, err := transform.TransformPayload(raw, docType)
	if err != nil {
		return nil, TransformOutput{}, err
	}

	// text content keeps the canonical key order, which structured output loses
	var text strings.Builder
	for i, r := range records {
		ordered, err := r.Record.OrderedJSON()
		if err != nil {
			return nil, TransformOutput{}, err
		}
		if i > 0 {
			text.WriteByte('\n')
		}
		if r.Model != transform.SingleModel {
			text.WriteString(r.Model)
			text.WriteString(": ")
		}
		text.Write(ordered)
	}
	logger.Info("transformed document", "type", docType, "records", len(records))

	result := &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text.String()}}}
	return result, TransformOutput{DocumentType: string(docType), Records: records}, nil
}
