package api

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/shabdkosh/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the three shabdkosh MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, svc *Service, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	kit.RegisterMCPTool(srv,
		mcp.NewTool("normalize_word",
			mcp.WithDescription("Validate a Devanagari word against the loaded symbol table and return its canonical form, or the reason it is rejected."),
			mcp.WithString("word", mcp.Required(), mcp.Description("The word to normalize; a leading ▁ boundary marker is allowed")),
		),
		kit.Logging(logger, "normalize_word")(normalizeWordEndpoint(svc)),
		decodeNormalizeWord,
	)

	kit.RegisterMCPTool(srv,
		mcp.NewTool("normalize_batch",
			mcp.WithDescription(fmt.Sprintf("Validate and normalize multiple words (up to %d).", MaxBatch)),
			mcp.WithString("words", mcp.Required(), mcp.Description("Comma-separated list of words")),
		),
		kit.Logging(logger, "normalize_batch")(normalizeBatchEndpoint(svc)),
		decodeNormalizeBatch,
	)

	kit.RegisterMCPTool(srv,
		mcp.NewTool("list_symbols",
			mcp.WithDescription("List the symbol table: every symbol with its type and role, plus counts per type."),
		),
		kit.Logging(logger, "list_symbols")(listSymbolsEndpoint(svc)),
		func(mcp.CallToolRequest) (any, error) { return nil, nil },
	)
}

func decodeNormalizeWord(req mcp.CallToolRequest) (any, error) {
	word, _ := req.GetArguments()["word"].(string)
	if word == "" {
		return nil, fmt.Errorf("word is required")
	}
	return &normalizeWordReq{Word: word}, nil
}

func decodeNormalizeBatch(req mcp.CallToolRequest) (any, error) {
	wordsStr, _ := req.GetArguments()["words"].(string)
	var words []string
	for _, w := range strings.Split(wordsStr, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return &normalizeBatchReq{Words: words}, nil
}
