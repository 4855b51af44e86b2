package cart

import (
	"fmt"

	"izakaya-order/internal/catalog"
	"izakaya-order/internal/models"
)

// Selection is what the diner picked in the add-to-cart dialog
type Selection struct {
	ServingStyle string `json:"serving_style,omitempty"`
	Glasses      *int   `json:"glasses,omitempty"`
}

// CustomizationError reports a missing or invalid customization for an item
type CustomizationError struct {
	ItemID  string
	Field   string
	Message string
}

func (e *CustomizationError) Error() string {
	return fmt.Sprintf("%s: %s (item %s)", e.Field, e.Message, e.ItemID)
}

// BuildCustomizations turns a selection into the customization strings stored on a
// line. Serving-style drinks must carry exactly one valid style. Bottled beer carries
// a glass count that never changes the price. Everything else has none.
func BuildCustomizations(rules catalog.Rules, item models.MenuItem, sel Selection) ([]string, error) {
	switch rules.Customization(item) {
	case catalog.CustomizationServingStyle:
		if sel.ServingStyle == "" {
			return nil, &CustomizationError{ItemID: item.ID, Field: "serving_style", Message: "serving style is required"}
		}
		if !catalog.IsServingStyle(sel.ServingStyle) {
			return nil, &CustomizationError{ItemID: item.ID, Field: "serving_style", Message: "unknown serving style"}
		}
		return []string{fmt.Sprintf("%s: %s", catalog.ServingStyleLabel, sel.ServingStyle)}, nil
	case catalog.CustomizationGlassCount:
		glasses := 0
		if sel.Glasses != nil {
			glasses = *sel.Glasses
		}
		if glasses < 0 {
			return nil, &CustomizationError{ItemID: item.ID, Field: "glasses", Message: "glass count must not be negative"}
		}
		return []string{fmt.Sprintf("%s: %d個", catalog.GlassCountLabel, glasses)}, nil
	default:
		return nil, nil
	}
}
