package designation

import (
	"github.com/awtadhr/payroll-backend-go/internal/pkg/validator"
)

// DesignationResponse represents the response structure for a designation.
type DesignationResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DisplayOrderKey *int   `json:"display_order_key,omitempty"`
}

// CreateDesignationRequest represents the request structure for creating a
// designation. A nil DisplayOrderKey appends the row after the last ranked
// one.
type CreateDesignationRequest struct {
	Name            string `json:"name"`
	DisplayOrderKey *int   `json:"display_order_key,omitempty"`
}

func (r *CreateDesignationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if r.DisplayOrderKey != nil && *r.DisplayOrderKey < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "display_order_key",
			Message: "display_order_key must be at least 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateDesignationRequest represents the request structure for updating a
// designation. ClearDisplayOrder moves the row out of the ranked range;
// DisplayOrderKey moves it to a new rank.
type UpdateDesignationRequest struct {
	ID                string  `json:"id"`
	Name              *string `json:"name,omitempty"`
	DisplayOrderKey   *int    `json:"display_order_key,omitempty"`
	ClearDisplayOrder bool    `json:"clear_display_order,omitempty"`
}

func (r *UpdateDesignationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		if len(*r.Name) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 100 characters",
			})
		}
	}

	if r.DisplayOrderKey != nil && *r.DisplayOrderKey < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "display_order_key",
			Message: "display_order_key must be at least 1",
		})
	}

	if r.DisplayOrderKey != nil && r.ClearDisplayOrder {
		errs = append(errs, validator.ValidationError{
			Field:   "display_order_key",
			Message: "display_order_key and clear_display_order are mutually exclusive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
