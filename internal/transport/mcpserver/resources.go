package mcpserver

import (
	"context"

	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/mark3labs/mcp-go/mcp"
)

// CategoryReader returns the raw category document.
type CategoryReader interface {
	Read(ctx context.Context) ([]byte, error)
}

func categoriesResource() mcp.Resource {
	return mcp.NewResource(category.ResourceURI, category.ResourceName,
		mcp.WithResourceDescription("Expense categories and their subcategories"),
		mcp.WithMIMEType(category.ResourceMIMEType),
	)
}

// categoriesHandler serves the document byte for byte. Read failures are
// returned to the caller of this one read only.
func categoriesHandler(categories CategoryReader) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := categories.Read(ctx)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      category.ResourceURI,
				MIMEType: category.ResourceMIMEType,
				Text:     string(data),
			},
		}, nil
	}
}
