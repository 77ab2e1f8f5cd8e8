package api

import (
	"context"
	"fmt"

	"github.com/hazyhaar/shabdkosh/pkg/kit"
)

// Shared request/response types used by both HTTP and MCP transports.

// MaxBatch bounds the number of words in one batch request.
const MaxBatch = 100

type normalizeWordReq struct {
	Word string
}

type normalizeBatchReq struct {
	Words []string
}

type batchResponse struct {
	Results  []*NormalizeResult `json:"results"`
	Accepted int                `json:"accepted"`
}

func normalizeWordEndpoint(svc *Service) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*normalizeWordReq)
		return svc.Normalize(req.Word), nil
	}
}

func normalizeBatchEndpoint(svc *Service) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*normalizeBatchReq)
		if len(req.Words) == 0 {
			return nil, fmt.Errorf("words array is empty")
		}
		if len(req.Words) > MaxBatch {
			return nil, fmt.Errorf("too many words (max %d, got %d)", MaxBatch, len(req.Words))
		}
		resp := batchResponse{Results: make([]*NormalizeResult, len(req.Words))}
		for i, w := range req.Words {
			resp.Results[i] = svc.Normalize(w)
			if resp.Results[i].Accepted {
				resp.Accepted++
			}
		}
		return resp, nil
	}
}

func listSymbolsEndpoint(svc *Service) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return svc.Table(), nil
	}
}
