package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dgnsrekt/return_notice/internal/controller"
)

func registerNoticeHandlers(api huma.API, svc Service) {
	type healthOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/health", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			return out, nil
		})

	type inspectOutput struct {
		Body controller.InspectResult
	}

	huma.Register(api, huma.Operation{OperationID: "inspect-return", Method: http.MethodGet, Path: "/api/v1/notice/inspect", Summary: "Inspect payment return parameters", Tags: []string{"Notice"}},
		func(ctx context.Context, input *struct {
			Query string `query:"query" doc:"Raw query string of the return URL (leading ? optional)"`
		}) (*inspectOutput, error) {
			res, err := svc.Inspect(ctx, input.Query)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &inspectOutput{}
			out.Body = res
			return out, nil
		})

	type sanitizeOutput struct {
		Body controller.SanitizeResult
	}

	huma.Register(api, huma.Operation{OperationID: "sanitize-url", Method: http.MethodPost, Path: "/api/v1/notice/sanitize", Summary: "Strip payment parameters from a URL", Tags: []string{"Notice"}},
		func(ctx context.Context, input *struct {
			Body struct {
				URL string `json:"url" required:"true" doc:"Address to scrub"`
			}
		}) (*sanitizeOutput, error) {
			res, err := svc.Sanitize(ctx, input.Body.URL)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &sanitizeOutput{}
			out.Body = res
			return out, nil
		})

	type previewOutput struct {
		Body controller.Preview
	}

	huma.Register(api, huma.Operation{OperationID: "preview-notice", Method: http.MethodPost, Path: "/api/v1/notice/preview", Summary: "Render the confirmation dialog", Tags: []string{"Notice"}},
		func(ctx context.Context, input *struct {
			Body struct {
				Query   string `json:"query,omitempty" doc:"Return query string to build the message from"`
				Message string `json:"message,omitempty" doc:"Literal message; overrides query"`
			}
		}) (*previewOutput, error) {
			p, err := svc.Preview(ctx, input.Body.Query, input.Body.Message)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &previewOutput{}
			out.Body = p
			return out, nil
		})
}
