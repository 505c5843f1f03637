package catalog

import "fmt"

// ResolutionKind identifies which lookup failed.
type ResolutionKind string

const (
	KindCategory        ResolutionKind = "category"
	KindManufacturer    ResolutionKind = "manufacturer"
	KindAttributeGroup  ResolutionKind = "attribute group"
	KindAttribute       ResolutionKind = "attribute"
	KindGroupMembership ResolutionKind = "attribute group membership"
)

// ResolutionError reports a logical name that did not resolve to an
// existing catalog row. Reference data is never created implicitly, so
// these always surface to the caller.
type ResolutionError struct {
	Kind    ResolutionKind
	Name    string
	GroupID int64 // set for KindGroupMembership
}

func (e *ResolutionError) Error() string {
	if e.Kind == KindGroupMembership {
		return fmt.Sprintf("attribute '%s' does not belong to group id %d", e.Name, e.GroupID)
	}
	return fmt.Sprintf("%s '%s' is not found", e.Kind, e.Name)
}

// IntegrityError reports a product id that resolved earlier in the run
// but no longer references an existing row.
type IntegrityError struct {
	ProductID int64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("product with id %d is not found", e.ProductID)
}
