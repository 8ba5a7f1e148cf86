package profile

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/labstack/echo/v5"

	"github.com/janisto/linkbio/internal/platform/respond"
	profilesvc "github.com/janisto/linkbio/internal/service/profile"
)

// patchDecMode decodes nested CBOR maps with string keys so patches can be
// re-encoded as JSON.
var patchDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeFor[map[string]any](),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// decodePatch reads a flat data patch. The body must be a JSON or CBOR object.
func decodePatch(c *echo.Context) (profilesvc.Fields, error) {
	mediaType, _, _ := mime.ParseMediaType(c.Request().Header.Get("Content-Type"))

	var (
		fields profilesvc.Fields
		err    error
	)
	body := c.Request().Body
	switch mediaType {
	case "application/cbor":
		err = patchDecMode.NewDecoder(body).Decode(&fields)
	case "", "application/json", "application/merge-patch+json":
		dec := json.NewDecoder(body)
		dec.UseNumber()
		err = dec.Decode(&fields)
	default:
		return nil, respond.NewError(http.StatusUnsupportedMediaType, "patch body must be application/json or application/cbor")
	}

	switch {
	case errors.Is(err, io.EOF):
		return nil, respond.Error400("request body is empty")
	case err != nil:
		return nil, respond.Error400("request body must be an object of profile data fields")
	case fields == nil:
		return nil, respond.Error400("request body must be an object of profile data fields")
	}
	return fields, nil
}
