// controllers/helpers.go
package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/tripnest_backend/engine"
	"github.com/tripnest/tripnest_backend/middleware"
	"github.com/tripnest/tripnest_backend/models"
)

// engineErrorResponse maps a typed engine error onto the JSON envelope.
// Echo errors pass through untouched; unknown errors become a 500 without
// leaking internals.
func engineErrorResponse(c echo.Context, err error) error {
	if he, ok := err.(*echo.HTTPError); ok {
		return he
	}
	status := engine.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    engineErrorData(err),
	})
}

// engineErrorData exposes machine-readable codes the frontend switches on
func engineErrorData(err error) interface{} {
	switch e := err.(type) {
	case *engine.LimitError:
		return map[string]string{"reason": e.Reason, "kind": string(e.Kind)}
	case *engine.ConflictError:
		return map[string]string{"code": e.Code}
	case *engine.ValidationError:
		return map[string]string{"field": e.Field}
	}
	if code := engine.ConversionCode(err); code != "" {
		return map[string]string{"code": code}
	}
	return nil
}

// actorFromContext resolves the authenticated actor's object ID and claims
func actorFromContext(c echo.Context) (primitive.ObjectID, *middleware.JwtCustomClaims, error) {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return primitive.NilObjectID, nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	actorID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	return actorID, claims, nil
}

// tenantIDFromContext resolves the caller's tenant scope
func tenantIDFromContext(c echo.Context) (primitive.ObjectID, error) {
	claims := middleware.GetUserFromToken(c)
	if claims == nil || claims.TenantID == "" {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusForbidden, "Tenant context required")
	}
	tenantID, err := primitive.ObjectIDFromHex(claims.TenantID)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid tenant ID")
	}
	return tenantID, nil
}
