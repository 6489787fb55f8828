package web

import (
	"bytes"
	"context"

	"github.com/a-h/templ"
)

// Component renders an a-h/templ component as an HTML response, for
// applications that prefer compiled templ views over html/template files:
//
//	return web.Component(r.Raw.Context(), pages.Dashboard(posts))
func Component(ctx context.Context, c templ.Component) (*Response, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, NewTemplateError("templ_render", "rendering templ component", err)
	}
	return HTML(buf.String()), nil
}
