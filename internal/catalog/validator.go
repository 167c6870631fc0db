package catalog

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	kitouterrors "github.com/kitout-sh/kitout/pkg/errors"
)

var validatorInstance *validator.Validate

var componentIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func init() {
	validatorInstance = validator.New()
	_ = validatorInstance.RegisterValidation("component_id", validateComponentID)
}

func validateComponentID(fl validator.FieldLevel) bool {
	return componentIDPattern.MatchString(fl.Field().String())
}

// Validate checks structural validity of a parsed catalog: field constraints,
// unique component identifiers, detect probes, and method consistency.
func Validate(cat *Catalog) error {
	if err := validatorInstance.Struct(cat); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return kitouterrors.NewValidationError("catalog", err.Error(), err)
		}
		first := validationErrors[0]
		return kitouterrors.NewValidationError(first.Namespace(), formatValidationError(first), err)
	}

	seen := make(map[string]bool, len(cat.Components))
	for _, comp := range cat.Components {
		if seen[comp.ID] {
			return kitouterrors.NewValidationError(
				fmt.Sprintf("components.%s", comp.ID),
				fmt.Sprintf("duplicate component ID %q", comp.ID),
				nil,
			)
		}
		seen[comp.ID] = true

		if err := validateDetect(comp); err != nil {
			return err
		}
		if err := validateMethod(comp.ID, "install", &comp.Install); err != nil {
			return err
		}
		if comp.Fallback != nil {
			if err := validateMethod(comp.ID, "fallback", comp.Fallback); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateDetect(comp Component) error {
	if comp.Detect.Command == "" && comp.Detect.Marker == "" {
		return kitouterrors.NewValidationError(
			fmt.Sprintf("components.%s.detect", comp.ID),
			"detect needs a command or a marker path",
			nil,
		)
	}
	if comp.Detect.Command == "" && len(comp.Detect.VersionArgs) > 0 {
		return kitouterrors.NewValidationError(
			fmt.Sprintf("components.%s.detect", comp.ID),
			"version_args require a detect command",
			nil,
		)
	}
	return nil
}

// validateMethod verifies the kind tag matches the populated configuration.
func validateMethod(componentID, position string, m *InstallMethod) error {
	field := fmt.Sprintf("components.%s.%s", componentID, position)

	var populated bool
	switch m.Kind {
	case KindApt:
		populated = m.Apt != nil
	case KindAptRepo:
		populated = m.AptRepo != nil
	case KindScript:
		populated = m.Script != nil
	case KindRelease:
		populated = m.Release != nil
	case KindClone:
		populated = m.Clone != nil
	default:
		return kitouterrors.NewValidationError(field, fmt.Sprintf("unknown install kind %q", m.Kind), nil)
	}

	if !populated {
		return kitouterrors.NewValidationError(field, fmt.Sprintf("missing configuration for kind %q", m.Kind), nil)
	}

	return nil
}

func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", err.Field())
	case "component_id":
		return fmt.Sprintf("field '%s' must start with a lowercase letter or digit and contain only lowercase letters, digits, hyphens, and underscores", err.Field())
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", err.Field(), err.Param())
	case "min":
		return fmt.Sprintf("field '%s' must have at least %s items or characters", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("field '%s' must have at most %s items or characters", err.Field(), err.Param())
	case "url":
		return fmt.Sprintf("field '%s' must be a valid URL", err.Field())
	case "len":
		return fmt.Sprintf("field '%s' must be exactly %s characters", err.Field(), err.Param())
	case "hexadecimal":
		return fmt.Sprintf("field '%s' must be hexadecimal", err.Field())
	default:
		return fmt.Sprintf("field '%s' failed validation: %s", err.Field(), err.Tag())
	}
}
