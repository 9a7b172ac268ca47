package httputil

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/valyala/fasthttp"

	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

// DecodeJSON decodes the request body into dest. A malformed body is a
// validation error.
func DecodeJSON(ctx *fasthttp.RequestCtx, dest interface{}) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return pkgerrors.NewValidationError("invalid payload", "body: is required")
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return pkgerrors.NewValidationError("invalid payload", "body: "+err.Error())
	}
	return nil
}

// PathUint returns a positive integer path parameter
func PathUint(ctx *fasthttp.RequestCtx, name string) (uint, error) {
	raw := fmt.Sprint(ctx.UserValue(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.NewValidationError("invalid payload", name+": must be a positive integer")
	}
	return uint(id), nil
}

// QueryInt returns an integer query argument, or def when it is absent
func QueryInt(ctx *fasthttp.RequestCtx, name string, def int) (int, error) {
	raw := ctx.QueryArgs().Peek(name)
	if len(raw) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, pkgerrors.NewValidationError("invalid payload", name+": must be an integer")
	}
	return n, nil
}
