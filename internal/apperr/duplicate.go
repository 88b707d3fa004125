package apperr

import "fmt"

// defaultDuplicateMessage is used when neither context nor message exist.
const defaultDuplicateMessage = "Resource already exists"

// DuplicateResource reports a uniqueness conflict without structured context.
func DuplicateResource(msg string) *Error {
	return newError(KindDuplicateResource, msg, nil)
}

// DuplicateResourceDetailed reports a uniqueness conflict on a known field.
func DuplicateResourceDetailed(msg, resourceType, conflictField, duplicateValue string) *Error {
	e := newError(KindDuplicateResource, msg, nil)
	e.resourceType = resourceType
	e.conflictField = conflictField
	e.duplicateValue = duplicateValue
	return e
}

// SupplierName reports a supplier whose name is already taken.
func SupplierName(name string) *Error {
	return DuplicateResourceDetailed("Supplier name already exists: "+name, "Supplier", "name", name)
}

// InventoryItemSKU reports an inventory item whose SKU is already taken.
func InventoryItemSKU(sku string) *Error {
	return DuplicateResourceDetailed("Inventory item SKU already exists: "+sku, "InventoryItem", "sku", sku)
}

// InventoryItemName reports an inventory item whose name is already taken.
func InventoryItemName(name string) *Error {
	return DuplicateResourceDetailed("Inventory item name already exists: "+name, "InventoryItem", "name", name)
}

// ResourceType returns the conflicting resource type, if known.
func (e *Error) ResourceType() string { return e.resourceType }

// ConflictField returns the conflicting field name, if known.
func (e *Error) ConflictField() string { return e.conflictField }

// DuplicateValue returns the conflicting value, if known.
func (e *Error) DuplicateValue() string { return e.duplicateValue }

// HasDetailedContext reports whether resource type, field and value are all set.
func (e *Error) HasDetailedContext() bool {
	return e.resourceType != "" && e.conflictField != "" && e.duplicateValue != ""
}

// ClientMessage renders the duplicate conflict for API clients.
func (e *Error) ClientMessage() string {
	if e.HasDetailedContext() {
		return fmt.Sprintf("%s with %s '%s' already exists", e.resourceType, e.conflictField, e.duplicateValue)
	}
	if e.message != "" {
		return e.message
	}
	return defaultDuplicateMessage
}

// ErrorDetails returns a structured description of a duplicate conflict
// suitable for monitoring payloads.
func (e *Error) ErrorDetails() map[string]any {
	details := map[string]any{
		"errorType": "DUPLICATE_RESOURCE",
		"message":   e.ClientMessage(),
	}
	if e.HasDetailedContext() {
		details["resourceType"] = e.resourceType
		details["conflictField"] = e.conflictField
		details["duplicateValue"] = e.duplicateValue
	}
	return details
}
