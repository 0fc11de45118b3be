package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcdickinson/soldoc/internal/docs"
	"github.com/jcdickinson/soldoc/internal/search"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

//go:embed instructions.md
var instructions string

// URIScheme prefixes document resource URIs.
const URIScheme = "soldoc://"

// ErrOutsideRoot is returned for document paths that escape the doc directory.
var ErrOutsideRoot = errors.New("path escapes documentation root")

type Server struct {
	mcpServer *server.MCPServer
	docDir    string
	searcher  *search.Searcher
}

// NewServer serves the generated documentation under docDir.
func NewServer(docDir, version string) *Server {
	s := &Server{
		docDir:   docDir,
		searcher: search.NewSearcher(docDir, URIScheme, docs.SummaryFile),
	}

	mcpServer := server.NewMCPServer(
		"soldoc",
		version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("list_documents",
			mcp.WithDescription("Return the documentation table of contents (SUMMARY.md). Each link target, without the .md suffix, can be passed to read_document or read as a soldoc:// resource."),
		),
		s.handleListDocuments,
	)

	mcpServer.AddTool(
		mcp.NewTool("read_document",
			mcp.WithDescription("Read the generated Markdown for one Solidity source file, e.g. \"utils/Math\"."),
			mcp.WithString("path",
				mcp.Description("Document path relative to the documentation root, with or without .md"),
				mcp.Required(),
			),
		),
		s.handleReadDocument,
	)

	mcpServer.AddTool(
		mcp.NewTool("search_documents",
			mcp.WithDescription("Keyword search over the documentation. Returns matching sections (contracts, methods, events, errors) with their soldoc:// URIs, best match first."),
			mcp.WithString("query",
				mcp.Description("Space-separated keywords; every keyword must occur in a section"),
				mcp.Required(),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 20)"),
			),
		),
		s.handleSearchDocuments,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			URIScheme+"{path}",
			"Solidity contract documentation",
			mcp.WithTemplateDescription("Generated documentation for one Solidity source file. list_documents returns the available paths."),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleReadResource,
	)
}

// resolve maps a document path to a file under the doc directory.
func (s *Server) resolve(name string) (string, error) {
	name = strings.TrimPrefix(name, URIScheme)
	name = strings.TrimSuffix(filepath.ToSlash(name), ".md")
	local := filepath.FromSlash(name)
	if name == "" || !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, name)
	}
	return filepath.Join(s.docDir, local+".md"), nil
}

func (s *Server) readDocument(name string) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("document %q not found", name)
	}
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return string(data), nil
}

func (s *Server) handleListDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := os.ReadFile(filepath.Join(s.docDir, docs.SummaryFile))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no documentation found in %s: %v", s.docDir, err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleReadDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	text, err := s.readDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleSearchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if query == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := 0
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}

	results, err := s.searcher.Search(query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	resultJSON, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	if !strings.HasPrefix(uri, URIScheme) {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}

	text, err := s.readDocument(uri)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}, nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}
