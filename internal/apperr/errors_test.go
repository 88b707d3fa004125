package apperr

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidRequest_Defaults(t *testing.T) {
	e := InvalidRequest("quantity must be positive")
	assert.Equal(t, KindInvalidRequest, e.Kind())
	assert.Equal(t, SeverityMedium, e.Severity())
	assert.Equal(t, CodeInvalidRequest, e.Code())
	assert.False(t, e.HasFieldErrors())
	assert.Nil(t, e.FieldErrors())
	assert.Equal(t, "quantity must be positive", e.Error())
}

func TestInvalidRequestWith_FallsBackOnZeroValues(t *testing.T) {
	e := InvalidRequestWith("x", 0, "")
	assert.Equal(t, SeverityMedium, e.Severity())
	assert.Equal(t, CodeInvalidRequest, e.Code())
}

func TestInvalidRequest_Factories(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		severity Severity
		code     string
		msg      string
		fields   int
	}{
		{"security", SecurityViolation("script tag"), SeverityCritical, CodeSecurityViolation, "Security violation: script tag", 0},
		{"business", BusinessRuleViolation("stock below zero"), SeverityHigh, CodeBusinessRuleViolation, "Business rule violation: stock below zero", 0},
		{"required", RequiredField("name"), SeverityMedium, CodeRequiredField, "Required field missing: name", 1},
		{"format", InvalidFormat("email", "an email address"), SeverityMedium, CodeInvalidFormat, "Invalid format for field 'email': expected an email address", 1},
		{"range", ValueOutOfRange("quantity", 0, 100), SeverityMedium, CodeValueOutOfRange, "Value for field 'quantity' must be between 0 and 100", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, KindInvalidRequest, tt.err.Kind())
			assert.Equal(t, tt.severity, tt.err.Severity())
			assert.Equal(t, tt.code, tt.err.Code())
			assert.Equal(t, tt.msg, tt.err.Message())
			assert.Len(t, tt.err.FieldErrors(), tt.fields)
		})
	}
	assert.True(t, SecurityViolation("x").IsCritical())
}

func TestInvalidRequestFields_Immutable(t *testing.T) {
	src := map[string]string{"name": "must not be blank", "price": "must be >= 0"}
	e := InvalidRequestFields("bad item", src)

	src["quantity"] = "added later"
	require.Len(t, e.FieldErrors(), 2)

	got := e.FieldErrors()
	got["name"] = "mutated"
	assert.Equal(t, "must not be blank", e.FieldErrors()["name"])
	assert.True(t, e.HasFieldErrors())

	empty := InvalidRequestFields("none", map[string]string{})
	assert.False(t, empty.HasFieldErrors())
}

func TestDuplicate_ClientMessage(t *testing.T) {
	assert.Equal(t, "Supplier with name 'ACME Corp' already exists", SupplierName("ACME Corp").ClientMessage())
	assert.Equal(t, "InventoryItem with sku 'SKU-1' already exists", InventoryItemSKU("SKU-1").ClientMessage())
	assert.Equal(t, "InventoryItem with name 'Bolt' already exists", InventoryItemName("Bolt").ClientMessage())

	plain := DuplicateResource("already there")
	assert.False(t, plain.HasDetailedContext())
	assert.Equal(t, "already there", plain.ClientMessage())

	assert.Equal(t, "Resource already exists", DuplicateResource("").ClientMessage())

	partial := DuplicateResourceDetailed("partial", "Supplier", "", "x")
	assert.False(t, partial.HasDetailedContext())
	assert.Equal(t, "partial", partial.ClientMessage())
}

func TestDuplicate_ErrorDetails(t *testing.T) {
	d := SupplierName("ACME").ErrorDetails()
	assert.Equal(t, "DUPLICATE_RESOURCE", d["errorType"])
	assert.Equal(t, "Supplier", d["resourceType"])
	assert.Equal(t, "name", d["conflictField"])
	assert.Equal(t, "ACME", d["duplicateValue"])

	d = DuplicateResource("").ErrorDetails()
	assert.NotContains(t, d, "resourceType")
	assert.Equal(t, "Resource already exists", d["message"])
}

func TestAs_ThroughWrapping(t *testing.T) {
	base := NotFound("Supplier not found: 42")
	wrapped := errors.Wrap(fmt.Errorf("service: %w", base), "handler")

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, base, got)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))

	assert.Equal(t, KindUnknown, KindOf(io.EOF))
	_, ok = As(nil)
	assert.False(t, ok)
}

func TestError_MessageFallbacks(t *testing.T) {
	assert.Equal(t, "token expired", Unauthenticated(errors.New("token expired")).Error())
	assert.Equal(t, "access_denied", AccessDenied(nil).Error())
	assert.Equal(t, "Supplier 7 was modified concurrently", OptimisticLock("Supplier", "7").Error())
}

func TestError_UnwrapAndWithCause(t *testing.T) {
	cause := errors.New("disk full")
	e := DataIntegrity(cause)
	assert.True(t, errors.Is(e, cause))

	other := errors.New("other")
	cp := e.WithCause(other)
	assert.True(t, errors.Is(cp, other))
	assert.True(t, errors.Is(e, cause))
	assert.Equal(t, KindDataIntegrity, cp.Kind())
}

func TestError_FormatPlusV(t *testing.T) {
	e := StateConflict("Cannot delete supplier with linked items")
	assert.Equal(t, "Cannot delete supplier with linked items", fmt.Sprintf("%v", e))
	assert.Equal(t, `"Cannot delete supplier with linked items"`, fmt.Sprintf("%q", e))

	verbose := fmt.Sprintf("%+v", e)
	assert.True(t, strings.HasPrefix(verbose, "Cannot delete supplier with linked items [state_conflict]"))
	assert.Contains(t, verbose, "errors_test.go")
}

func TestConstraintViolation_CopiesInput(t *testing.T) {
	in := []Violation{{PropertyPath: "name", Message: "size must be between 0 and 255"}}
	e := ConstraintViolation(in...)
	in[0].Message = "changed"
	assert.Equal(t, "size must be between 0 and 255", e.Violations()[0].Message)
	assert.Nil(t, ConstraintViolation().Violations())
}

func TestParamAndStatus(t *testing.T) {
	assert.Equal(t, "name", MissingParameter("name").Param())
	tm := TypeMismatch("page", errors.New("strconv"))
	assert.Equal(t, "page", tm.Param())
	assert.Equal(t, KindTypeMismatch, tm.Kind())

	s := Status(403, "Users are only allowed to change quantity or price.")
	assert.Equal(t, 403, s.Status())
	assert.Equal(t, KindStatus, s.Kind())
}

func TestSeverity_Text(t *testing.T) {
	b, err := json.Marshal(map[string]Severity{"s": SeverityHigh})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"HIGH"}`, string(b))

	var out map[string]Severity
	require.NoError(t, json.Unmarshal([]byte(`{"s":"critical"}`), &out))
	assert.Equal(t, SeverityCritical, out["s"])

	_, err = ParseSeverity("urgent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown severity "urgent"`)
	assert.Contains(t, fmt.Sprintf("%+v", err), "severity.go", "error should carry a stack")
	_, err = Severity(9).MarshalText()
	require.Error(t, err)
	assert.Contains(t, fmt.Sprintf("%+v", err), "severity.go")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "duplicate_resource", KindDuplicateResource.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
